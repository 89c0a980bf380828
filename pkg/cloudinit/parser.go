package cloudinit

import (
	"fmt"
	"os"
	"strings"
)

// ParseFile reads the file at path and parses it with Parse.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cloud-init file: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse extracts the recognized sections from a cloud-init document.
// It is a single forward scan over the lines of the document. Only four
// top-level markers are recognized (ssh_pwauth:, packages:, write_files:,
// runcmd:); every other top-level line is skipped. Parsing never fails:
// malformed input degrades to empty or default values.
//
// Indentation handling assumes 2-space list markers; tab-indented input is
// unsupported.
func Parse(text string) *Config {
	cfg := NewConfig()
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "ssh_pwauth:"):
			value := line[len("ssh_pwauth:"):]
			cfg.SSHPwAuth = strings.Contains(value, "true")
			i++

		case line == "packages:":
			i = parsePackages(lines, i+1, cfg)

		case line == "write_files:":
			i = parseWriteFiles(lines, i+1, cfg)

		case line == "runcmd:":
			i = parseRunCmd(lines, i+1, cfg)

		default:
			i++
		}
	}

	return cfg
}

// parsePackages consumes the packages block starting at index i and returns
// the index of the first line past the block.
func parsePackages(lines []string, i int, cfg *Config) int {
	for i < len(lines) && inBlock(lines[i]) {
		s := strings.TrimSpace(lines[i])
		if strings.HasPrefix(s, "- ") {
			cfg.Packages = append(cfg.Packages, strings.TrimSpace(s[2:]))
		}
		i++
	}
	return i
}

// parseRunCmd consumes the runcmd block starting at index i and returns the
// index of the first line past the block.
func parseRunCmd(lines []string, i int, cfg *Config) int {
	for i < len(lines) && inBlock(lines[i]) {
		s := strings.TrimSpace(lines[i])
		if strings.HasPrefix(s, "# ") {
			i++
			continue
		}
		if strings.HasPrefix(s, "- ") {
			cmd := s[2:]
			// YAML single-quoted commands keep shell syntax intact;
			// strip the wrapping quotes.
			if len(cmd) >= 2 && strings.HasPrefix(cmd, "'") && strings.HasSuffix(cmd, "'") {
				cmd = cmd[1 : len(cmd)-1]
			}
			cfg.RunCmd = append(cfg.RunCmd, cmd)
		}
		i++
	}
	return i
}

// parseWriteFiles consumes the write_files block starting at index i and
// returns the index of the first line past the block. The block ends at the
// next non-blank, non-comment line with zero leading whitespace.
func parseWriteFiles(lines []string, i int, cfg *Config) int {
	for i < len(lines) {
		s := strings.TrimSpace(lines[i])

		if topLevel(lines[i]) && !strings.HasPrefix(s, "#") {
			break
		}
		if s == "" || strings.HasPrefix(s, "#") {
			i++
			continue
		}
		if strings.HasPrefix(s, "- path:") {
			var entry FileEntry
			entry, i = parseFileEntry(lines, i)
			cfg.WriteFiles = append(cfg.WriteFiles, entry)
			continue
		}
		i++
	}
	return i
}

// parseFileEntry parses one write_files entry starting at the "- path:"
// line at index i. It returns the entry and the index of the line that
// ended it (the next entry or the section boundary).
func parseFileEntry(lines []string, i int) (FileEntry, int) {
	s := strings.TrimSpace(lines[i])
	entry := newFileEntry(strings.TrimSpace(s[strings.Index(s, "path:")+len("path:"):]))
	i++

	for i < len(lines) {
		fl := lines[i]
		fs := strings.TrimSpace(fl)

		// Next entry or end of section.
		if strings.HasPrefix(fs, "- path:") ||
			(topLevel(fl) && fs != "" && !strings.HasPrefix(fs, "#")) {
			break
		}

		switch {
		case strings.HasPrefix(fs, "owner:"):
			entry.Owner = strings.TrimSpace(fs[len("owner:"):])
			i++
		case strings.HasPrefix(fs, "permissions:"):
			v := strings.TrimSpace(fs[len("permissions:"):])
			entry.Permissions = strings.Trim(v, `"`)
			i++
		case strings.HasPrefix(fs, "content:"):
			entry.Content, i = parseContentBlock(lines, i+1)
		default:
			// Unknown entry field, skipped for forward compatibility.
			i++
		}
	}

	return entry, i
}

// parseContentBlock parses a block-literal scalar (content: |) starting at
// index i. The indentation of the first non-blank line sets the block's
// indentation width; lines keep belonging to the block while they carry at
// least that much indentation. A blank line stays in the block only when
// the line after it still carries the block indentation, so internal blank
// lines survive while trailing ones end the block. Returns the collected
// content (trailing whitespace stripped) and the index past the block.
func parseContentBlock(lines []string, i int) (string, int) {
	var content []string
	indent := 0

	for i < len(lines) {
		cl := lines[i]
		cs := strings.TrimSpace(cl)

		if indent == 0 && cs != "" {
			indent = len(cl) - len(strings.TrimLeft(cl, " "))
		}

		switch {
		case indent > 0 && strings.HasPrefix(cl, strings.Repeat(" ", indent)):
			content = append(content, cl[indent:])
			i++
		case cs == "":
			if i+1 < len(lines) && indent > 0 && strings.HasPrefix(lines[i+1], strings.Repeat(" ", indent)) {
				content = append(content, "")
				i++
			} else {
				return strings.TrimRight(strings.Join(content, "\n"), " \t\r\n"), i
			}
		default:
			return strings.TrimRight(strings.Join(content, "\n"), " \t\r\n"), i
		}
	}

	return strings.TrimRight(strings.Join(content, "\n"), " \t\r\n"), i
}

// inBlock reports whether a line still belongs to a simple indented block
// (packages, runcmd): indented by at least two spaces, or blank.
func inBlock(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.TrimSpace(line) == ""
}

// topLevel reports whether a line is non-blank with zero leading whitespace.
func topLevel(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return c != ' ' && c != '\t'
}
