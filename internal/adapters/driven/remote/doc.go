// Package remote provides a driven.Classifier backed by a model server.
//
// The server receives scaled features and answers with labels and class
// probabilities:
//
//	POST {url}/predict
//	{"instances": [[0.1, -1.2], ...]}
//
//	200 OK
//	{"predictions": [0, ...], "probabilities": [[0.9, 0.1], ...]}
//
// Requests are rate limited and may authenticate with OAuth2 client
// credentials.
package remote
