// Package httpclient is the outbound HTTP client used to reach model
// sidecars. It resolves paths against a base URL and applies default
// headers, authentication and TLS. Request bodies may be JSON, raw bytes
// or a streamed multipart form. Failures are classified: non-2xx replies
// become *Error values that keep a bounded prefix of the response body.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:50000",
//	    Timeout: 300 * time.Second,
//	})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/generate",
//	    Body: &httpclient.MultipartBody{
//	        Fields: []httpclient.Field{{Name: "language", Value: "en"}},
//	        Files:  []httpclient.FileField{{FieldName: "audio", FileName: "a.wav", Reader: f}},
//	    },
//	})
//
// Requests are sent once. Callers that want retries wrap Do themselves.
package httpclient
