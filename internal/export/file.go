package export

// File writes code verbatim to path and returns its absolute path.
// The name is used as given; no extension is added.
func File(path, code string) (string, error) {
	return writeFile(path, []byte(code))
}
