package cloudinit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		cfg := Parse("")

		assert.True(t, cfg.SSHPwAuth)
		assert.Empty(t, cfg.Packages)
		assert.Empty(t, cfg.WriteFiles)
		assert.Empty(t, cfg.RunCmd)
	})

	t.Run("unrecognized top-level keys are skipped", func(t *testing.T) {
		cfg := Parse(`hostname: web-01
users:
  - name: deploy
packages:
  - curl
`)

		assert.Equal(t, []string{"curl"}, cfg.Packages)
	})
}

func TestParseSSHPwAuth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "absent defaults to true", input: "packages:\n", want: true},
		{name: "explicit true", input: "ssh_pwauth: true\n", want: true},
		{name: "explicit false", input: "ssh_pwauth: false\n", want: false},
		{name: "anything without true is false", input: "ssh_pwauth: yes\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Parse(tt.input)
			assert.Equal(t, tt.want, cfg.SSHPwAuth)
		})
	}
}

func TestParsePackages(t *testing.T) {
	t.Run("preserves source order", func(t *testing.T) {
		cfg := Parse(`packages:
  - nginx
  - git
  - zsh
`)

		assert.Equal(t, []string{"nginx", "git", "zsh"}, cfg.Packages)
	})

	t.Run("blank lines do not end the block", func(t *testing.T) {
		cfg := Parse("packages:\n  - nginx\n\n  - git\n")

		assert.Equal(t, []string{"nginx", "git"}, cfg.Packages)
	})

	t.Run("indented non-item lines are ignored", func(t *testing.T) {
		cfg := Parse(`packages:
  - nginx
  # a comment
  stray: value
  - git
`)

		assert.Equal(t, []string{"nginx", "git"}, cfg.Packages)
	})

	t.Run("block ends at next top-level key", func(t *testing.T) {
		cfg := Parse(`packages:
  - nginx
runcmd:
  - echo hi
`)

		assert.Equal(t, []string{"nginx"}, cfg.Packages)
		assert.Equal(t, []string{"echo hi"}, cfg.RunCmd)
	})
}

func TestParseRunCmd(t *testing.T) {
	t.Run("preserves source order", func(t *testing.T) {
		cfg := Parse(`runcmd:
  - systemctl enable nginx
  - systemctl start nginx
`)

		assert.Equal(t, []string{"systemctl enable nginx", "systemctl start nginx"}, cfg.RunCmd)
	})

	t.Run("comments are skipped", func(t *testing.T) {
		cfg := Parse(`runcmd:
  # set up the service
  - systemctl enable nginx
`)

		assert.Equal(t, []string{"systemctl enable nginx"}, cfg.RunCmd)
	})

	t.Run("single-quoted commands are unwrapped", func(t *testing.T) {
		cfg := Parse(`runcmd:
  - 'echo "hello" > /tmp/out'
`)

		assert.Equal(t, []string{`echo "hello" > /tmp/out`}, cfg.RunCmd)
	})

	t.Run("inner quotes are kept", func(t *testing.T) {
		cfg := Parse(`runcmd:
  - su - ubuntu -c 'git pull'
`)

		assert.Equal(t, []string{"su - ubuntu -c 'git pull'"}, cfg.RunCmd)
	})
}

func TestParseWriteFiles(t *testing.T) {
	t.Run("full entry", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    owner: root:root
    permissions: "0644"
    content: |
      hello
      world
`)

		require.Len(t, cfg.WriteFiles, 1)
		entry := cfg.WriteFiles[0]
		assert.Equal(t, "/etc/motd", entry.Path)
		assert.Equal(t, "root:root", entry.Owner)
		assert.Equal(t, "0644", entry.Permissions)
		assert.Equal(t, "hello\nworld", entry.Content)
	})

	t.Run("defaults for missing fields", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
`)

		require.Len(t, cfg.WriteFiles, 1)
		entry := cfg.WriteFiles[0]
		assert.Equal(t, "root:root", entry.Owner)
		assert.Equal(t, "0644", entry.Permissions)
		assert.Equal(t, "", entry.Content)
	})

	t.Run("unquoted permissions", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    permissions: 0755
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "0755", cfg.WriteFiles[0].Permissions)
	})

	t.Run("unknown entry fields are ignored", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    encoding: b64
    defer: true
    owner: deploy:deploy
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "deploy:deploy", cfg.WriteFiles[0].Owner)
	})

	t.Run("multiple entries preserve order", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/first
    content: |
      one
  # a comment between entries
  - path: /etc/second
    content: |
      two

  - path: /etc/third
`)

		require.Len(t, cfg.WriteFiles, 3)
		assert.Equal(t, "/etc/first", cfg.WriteFiles[0].Path)
		assert.Equal(t, "/etc/second", cfg.WriteFiles[1].Path)
		assert.Equal(t, "/etc/third", cfg.WriteFiles[2].Path)
	})

	t.Run("section ends at next top-level key", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    content: |
      hi
runcmd:
  - echo done
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "hi", cfg.WriteFiles[0].Content)
		assert.Equal(t, []string{"echo done"}, cfg.RunCmd)
	})
}

func TestParseContentBlock(t *testing.T) {
	t.Run("internal blank line is kept", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/profile.d/extra.sh
    content: |
      export A=1

      export B=2
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "export A=1\n\nexport B=2", cfg.WriteFiles[0].Content)
	})

	t.Run("trailing blank lines are stripped", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    content: |
      hello


  - path: /etc/other
`)

		require.Len(t, cfg.WriteFiles, 2)
		assert.Equal(t, "hello", cfg.WriteFiles[0].Content)
	})

	t.Run("lower indentation ends the block", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/motd
    content: |
      hello
    owner: deploy:deploy
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "hello", cfg.WriteFiles[0].Content)
		assert.Equal(t, "deploy:deploy", cfg.WriteFiles[0].Owner)
	})

	t.Run("deeper indentation is preserved relative to the block", func(t *testing.T) {
		cfg := Parse(`write_files:
  - path: /etc/nginx/nginx.conf
    content: |
      server {
        listen 80;
      }
`)

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "server {\n  listen 80;\n}", cfg.WriteFiles[0].Content)
	})

	t.Run("content at end of input", func(t *testing.T) {
		cfg := Parse("write_files:\n  - path: /etc/motd\n    content: |\n      hello")

		require.Len(t, cfg.WriteFiles, 1)
		assert.Equal(t, "hello", cfg.WriteFiles[0].Content)
	})
}

func TestParseFile(t *testing.T) {
	t.Run("reads and parses a file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "cloud-init.yaml")
		err := os.WriteFile(path, []byte("packages:\n  - git\n"), 0644)
		require.NoError(t, err)

		cfg, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"git"}, cfg.Packages)
	})

	t.Run("missing file returns an error", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
