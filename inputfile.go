package wireobj

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/reoring/wireobj/i18n"
)

// DefaultMIME is used when the content type cannot be guessed from the
// filename extension.
const DefaultMIME = "application/octet-stream"

// InputFile is a pending binary upload. Identity is per-instance, never
// content-addressed: two files built from identical bytes are distinct
// resources. An InputFile lives from construction until the encoded request
// referencing it is transmitted; for lazy files the caller owns the wrapped
// stream and must keep it valid until then.
type InputFile struct {
	filename string
	mime     string
	data     []byte
	reader   io.Reader // retained handle for lazy files; nil otherwise
	token    string
	lazy     bool
}

// FileOption configures InputFile construction.
type FileOption func(*InputFile)

// Attach assigns a unique attach token so the file can be referenced from
// inside a JSON structure via attach://<token>.
func Attach() FileOption {
	return func(f *InputFile) { f.token = uuid.NewString() }
}

// WithToken assigns an explicit attach token.
func WithToken(token string) FileOption {
	return func(f *InputFile) { f.token = token }
}

// WithMIME overrides the guessed content type.
func WithMIME(m string) FileOption {
	return func(f *InputFile) { f.mime = m }
}

// Lazy keeps the reader handle instead of draining it at construction.
// Only FileFromReader honors it.
func Lazy() FileOption {
	return func(f *InputFile) { f.lazy = true }
}

// FileFromBytes builds an InputFile over the given content.
func FileFromBytes(filename string, data []byte, opts ...FileOption) *InputFile {
	f := &InputFile{filename: filename, data: data}
	applyFileOptions(f, opts)
	return f
}

// FileFromString builds an InputFile over the UTF-8 bytes of s.
func FileFromString(filename, s string, opts ...FileOption) *InputFile {
	return FileFromBytes(filename, []byte(s), opts...)
}

// FileFromReader builds an InputFile from a readable stream. The stream is
// drained eagerly unless the Lazy option is given; a read failure is fatal
// here so that a malformed request is never partially built.
func FileFromReader(filename string, r io.Reader, opts ...FileOption) (*InputFile, error) {
	f := &InputFile{filename: filename, reader: r}
	applyFileOptions(f, opts)
	if f.lazy {
		return f, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Issues{Issue{
			Path: "/", Code: CodeUnreadableAttachment,
			Message: i18n.T(CodeUnreadableAttachment, nil),
			Hint:    filename, Cause: err,
		}}
	}
	f.data = data
	f.reader = nil
	return f, nil
}

func applyFileOptions(f *InputFile, opts []FileOption) {
	for _, o := range opts {
		o(f)
	}
	if f.mime == "" {
		f.mime = guessMIME(f.filename)
	}
}

// guessMIME resolves the content type from the filename extension, falling
// back to application/octet-stream. Parameters such as "; charset=utf-8"
// are stripped.
func guessMIME(filename string) string {
	mt := mime.TypeByExtension(filepath.Ext(filename))
	if mt == "" {
		return DefaultMIME
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// Filename returns the name transmitted with the multipart part.
func (f *InputFile) Filename() string { return f.filename }

// MIME returns the content type transmitted with the multipart part.
func (f *InputFile) MIME() string { return f.mime }

// Token returns the attach token, or "" when none was assigned.
func (f *InputFile) Token() string { return f.token }

// AttachURI returns attach://<token> when a token was assigned at
// construction, else "".
func (f *InputFile) AttachURI() string {
	if f.token == "" {
		return ""
	}
	return "attach://" + f.token
}

// Data returns the eagerly read content; nil for lazy files.
func (f *InputFile) Data() []byte { return f.data }

// Reader returns the retained stream handle of a lazy file; nil otherwise.
func (f *InputFile) Reader() io.Reader {
	if f.lazy {
		return f.reader
	}
	return nil
}

// IsLazy reports whether the file retains its stream handle.
func (f *InputFile) IsLazy() bool { return f.lazy }
