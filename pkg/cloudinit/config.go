// Package cloudinit parses the restricted cloud-init YAML subset this tool
// understands: ssh_pwauth, packages, write_files and runcmd.
package cloudinit

// Config holds the parsed sections of a cloud-init document.
type Config struct {
	// SSHPwAuth mirrors the ssh_pwauth key. Defaults to true when absent.
	SSHPwAuth bool

	// Packages lists package names in source order.
	Packages []string

	// WriteFiles lists file entries in source order.
	WriteFiles []FileEntry

	// RunCmd lists shell commands in source order.
	RunCmd []string
}

// FileEntry is a single write_files entry.
type FileEntry struct {
	Path        string
	Owner       string
	Permissions string
	Content     string
}

// NewConfig returns a Config with the documented defaults applied.
func NewConfig() *Config {
	return &Config{SSHPwAuth: true}
}

// newFileEntry returns a FileEntry with cloud-init's defaults for the
// optional fields.
func newFileEntry(path string) FileEntry {
	return FileEntry{
		Path:        path,
		Owner:       "root:root",
		Permissions: "0644",
	}
}
