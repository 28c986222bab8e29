// Package wireobj is the object-model layer beneath a REST API client:
//
// - Immutable, schema-aware entities mapping wire JSON to typed values and back
// - Forward/backward schema compatibility via an extras side-channel
// - Discriminated-union ("tagged variant") dispatch with unknown-tag fallback
// - Request parameter encoding that mixes JSON values with binary attachments
//   referenced through attach://<token> URIs
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; wire codecs live under codec/.
// - Per-type schemas are declared once through the Descriptor builder and are
//   never introspected at runtime.
// - HTTP transport, retries, and authentication are out of scope; this package
//   produces the JSON body and multipart parts a transport consumes.
//
// Typical usage:
//
//	msg, err := messageDesc.DecodeFrom(ctx, wireobj.JSONBytes(data))
//	body := msg.Encode(true)
//
//	p := wireobj.EncodeParameter("photo", wireobj.FileFromBytes("a.png", img))
//	js, ok := p.JSONText()
//	parts := p.MultipartParts()
package wireobj
