// Package features turns file fragments into feature vectors for
// classification.
//
// A [Registry] maps extractor names to estimators; each extractor expands
// into a group of named scalars:
//
//   - lyap: lyap_d<d>, the maximal Lyapunov exponent for dimension d
//     (-1 when no estimate was possible)
//   - fnn: fnn_false_m<m>, fnn_size_m<m>, fnn_rms_m<m> per embedding order m
//
// Example:
//
//	data, _ := features.ReadFragment(path, 0, 4096)
//	feats, err := features.NewRegistry().Extract(ctx, features.FromBytes(data), cfg, nil, nil)
package features
