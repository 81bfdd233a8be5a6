package errors

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced to users. Every kind has a constructor below that produces the stable display text.
var (
	ErrDirCreation            = errors.New("directory creation failed")
	ErrWrite                  = errors.New("write failed")
	ErrRead                   = errors.New("read failed")
	ErrPathCanonicalization   = errors.New("path canonicalization failed")
	ErrPresetNotFound         = errors.New("preset not found")
	ErrTemplateParsing        = errors.New("template parsing failed")
	ErrTemplateRendering      = errors.New("template rendering failed")
	ErrTemplateContextParsing = errors.New("templating context parsing failed")
	ErrCircularDependency     = errors.New("circular dependency")
	ErrSerialization          = errors.New("serialization failed")
	ErrDeserialization        = errors.New("deserialization failed")
	ErrFileExists             = errors.New("file already exists")
)

// Catch-all failures.
var (
	ErrInvalidConfigFormat  = errors.New("Invalid config format. Allowed formats are: yaml, toml, json")
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrNotADirectory        = errors.New("is not a directory")
	ErrDirExists            = errors.New("directory already exists")
	ErrTemplatesDirNotSet   = errors.New("templates_dir is not set")
	ErrShellCommandFailed   = errors.New("shell command failed")
	ErrEmptyCommand         = errors.New("empty command")
	ErrGitClone             = errors.New("Could not clone git repo")
	ErrGitInit              = errors.New("could not initialize git repo")
	ErrRemoteDownload       = errors.New("could not download remote file")
	ErrHTTPRequestFailed    = errors.New("HTTP request failed")
	ErrRegistryLookup       = errors.New("could not fetch the latest version")
	ErrInvalidSetValue      = errors.New("invalid --set value, expected key=value")
	ErrInvalidServiceFlag   = errors.New("invalid --service value")
	ErrMissingOutput        = errors.New("missing output")
	ErrMissingInput         = errors.New("missing input")
	ErrLicenseNotFound      = errors.New("license not found")
	ErrPersonNotFound       = errors.New("person not found")
	ErrWorkspaceNotFound    = errors.New("pnpm-workspace.yaml not found")
	ErrInvalidTemplateArgs  = errors.New("invalid template function arguments")
	ErrMissingPathComponent = errors.New("path has no such component")
	ErrUnsupportedValue     = errors.New("unsupported value")
	ErrInvalidFlag          = errors.New("invalid flag value")
)

// kindError is a taxonomy member. It matches its kind with errors.Is and keeps the cause reachable.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func newKind(kind error, cause error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Errorf builds a catch-all failure that matches kind with errors.Is and displays only the formatted text.
func Errorf(kind error, format string, args ...any) error {
	return newKind(kind, nil, format, args...)
}

// Wrapf is Errorf with a cause kept reachable through errors.Unwrap.
func Wrapf(kind error, cause error, format string, args ...any) error {
	return newKind(kind, cause, format, args...)
}

// NewDirCreationError reports a directory that could not be created.
func NewDirCreationError(path string, cause error) error {
	return newKind(ErrDirCreation, cause, "Could not create the dir `%s`: %v", path, cause)
}

// NewWriteError reports a file that could not be created or written.
func NewWriteError(path string, cause error) error {
	return newKind(ErrWrite, cause, "Failed to create or write to the file `%s`: %v", path, cause)
}

// NewReadError reports a file or directory that could not be read.
func NewReadError(path string, cause error) error {
	return newKind(ErrRead, cause, "Could not read the contents of `%s`: %v", path, cause)
}

// NewPathCanonicalizationError reports a path that could not be made absolute.
func NewPathCanonicalizationError(path string, cause error) error {
	return newKind(ErrPathCanonicalization, cause, "Failed to canonicalize the path `%s`: %v", path, cause)
}

// NewPresetNotFoundError reports a preset id missing from the store of its kind.
func NewPresetNotFoundError(kind, name string) error {
	return newKind(ErrPresetNotFound, nil, "%s preset `%s` not found", kind, name)
}

func NewTemplateParsingError(template string, cause error) error {
	return newKind(ErrTemplateParsing, cause, "Failed to parse the template `%s`: %v", template, cause)
}

func NewTemplateRenderingError(template string, cause error) error {
	return newKind(ErrTemplateRendering, cause, "Failed to render the template `%s`: %v", template, cause)
}

func NewTemplateContextParsingError(cause error) error {
	return newKind(ErrTemplateContextParsing, cause, "Failed to parse the templating context: %v", cause)
}

// NewCircularDependencyError carries the full chain text as its message.
func NewCircularDependencyError(text string) error {
	return newKind(ErrCircularDependency, nil, "%s", text)
}

func NewSerializationError(file, message string) error {
	return newKind(ErrSerialization, nil, "Error while serializing the content for `%s`: %s", file, message)
}

func NewDeserializationError(file, message string) error {
	return newKind(ErrDeserialization, nil, "Error while deserializing the contents of `%s`: %s", file, message)
}

// NewFileExistsError is returned by the overwrite gate when no_overwrite is set.
func NewFileExistsError(path string) error {
	return Build(newKind(ErrFileExists, nil,
		"The file `%s` already exists. Set `no_overwrite` to false to overwrite existing files", path)).
		WithHint("Remove the file or run without `--no-overwrite`").
		WithContext("path", path).
		Err()
}

// ExitCodeError is returned when a hook or command exits with a non-zero status.
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("subcommand exited with code %d", e.Code)
}
