package tape

// Version constants for the cassette format and the library.
const (
	// FormatVersion is the cassette envelope schema version.
	FormatVersion = "1"

	// LibraryVersion is the rewind library version.
	LibraryVersion = "0.1.0"
)
