// Package generator turns a parsed cloud-init config into an equivalent
// bash script, for targets (such as Lightsail) that only accept shell
// user-data.
package generator

import (
	"strings"

	"github.com/jaspreet-dot-casa/cloud-init-to-bash/pkg/cloudinit"
)

// DefaultUser is the username cloud-init documents are written against.
// Generation rewrites user-specific paths and ownership when the target
// user differs.
const DefaultUser = "ubuntu"

// fileEOF delimits write_files heredocs. It is quoted in the script so the
// content is never interpolated by the shell.
const fileEOF = "FILEEOF"

// sshHardening is emitted when ssh_pwauth is false. It supersedes any
// sshd_config entry in write_files, which are skipped during generation.
var sshHardening = []string{
	"# SSH hardening",
	"cat > /etc/ssh/sshd_config.d/99-hardening.conf << 'SSHCONF'",
	"PasswordAuthentication no",
	"KbdInteractiveAuthentication no",
	"PubkeyAuthentication yes",
	"PermitRootLogin prohibit-password",
	"SSHCONF",
	"",
}

// Script generates the bash script for cfg, targeting the given user.
// It is pure string construction; the caller decides where the script goes.
func Script(cfg *cloudinit.Config, user string) string {
	home := "/home/" + user
	if user == "root" {
		home = "/root"
	}

	out := []string{
		"#!/bin/bash",
		"set -x",
		"export DEBIAN_FRONTEND=noninteractive",
		"",
	}

	if len(cfg.Packages) > 0 {
		out = append(out,
			"# System packages",
			"apt-get update -y",
			"apt-get upgrade -y",
			"apt-get install -y "+strings.Join(cfg.Packages, " "),
			"",
		)
	}

	for _, entry := range cfg.WriteFiles {
		// sshd config is owned by the hardening block below.
		if strings.Contains(entry.Path, "sshd_config") {
			continue
		}
		out = append(out, fileLines(entry, user, home)...)
	}

	if !cfg.SSHPwAuth {
		out = append(out, sshHardening...)
	}

	if len(cfg.RunCmd) > 0 {
		out = append(out, "# Run commands")
		for _, cmd := range cfg.RunCmd {
			out = append(out, rewriteCommand(cmd, user, home))
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

// fileLines emits the mkdir/heredoc/chmod/chown sequence for one
// write_files entry, rewriting ubuntu-specific paths and ownership when
// the target user differs.
func fileLines(entry cloudinit.FileEntry, user, home string) []string {
	path := entry.Path
	owner := entry.Owner
	content := entry.Content
	if user != DefaultUser {
		path = strings.ReplaceAll(path, "/home/ubuntu", home)
		// Plain substring replace, not field-aware: a group name that
		// happens to contain "ubuntu" is rewritten too.
		owner = strings.ReplaceAll(owner, "ubuntu", user)
		content = strings.ReplaceAll(content, "/home/ubuntu", home)
	}

	var out []string
	if parent := parentDir(path); parent != "" {
		out = append(out, "mkdir -p "+parent)
	}
	out = append(out,
		"cat > "+path+" << '"+fileEOF+"'",
		content,
		fileEOF,
		"chmod "+entry.Permissions+" "+path,
		"chown "+owner+" "+path,
		"",
	)
	return out
}

// rewriteCommand applies the user substitutions to a runcmd command.
// The replacements run in sequence, each over the previous result, so
// earlier rules can consume text later rules would otherwise match.
func rewriteCommand(cmd, user, home string) string {
	if user == DefaultUser {
		return cmd
	}
	cmd = strings.ReplaceAll(cmd, "ubuntu:ubuntu", user+":"+user)
	cmd = strings.ReplaceAll(cmd, "/home/ubuntu", home)
	cmd = strings.ReplaceAll(cmd, "chsh -s /usr/bin/zsh ubuntu", "chsh -s /usr/bin/zsh "+user)
	cmd = strings.ReplaceAll(cmd, "chown -R ubuntu:ubuntu", "chown -R "+user+":"+user)
	cmd = strings.ReplaceAll(cmd, "su - ubuntu", "su - "+user)
	return cmd
}

// parentDir returns the parent directory of path, or "" when the path has
// no parent worth creating (root-level files, relative names).
func parentDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
