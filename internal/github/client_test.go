package github

import "testing"

func TestParseGitHubRemote(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{
			name:      "ssh with .git suffix",
			url:       "git@github.com:octocat/hello-world.git",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
			wantOK:    true,
		},
		{
			name:      "ssh without suffix",
			url:       "git@github.com:octocat/hello-world",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
			wantOK:    true,
		},
		{
			name:      "https with .git suffix",
			url:       "https://github.com/octocat/hello-world.git",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
			wantOK:    true,
		},
		{
			name:      "https without suffix",
			url:       "https://github.com/octocat/hello-world",
			wantOwner: "octocat",
			wantRepo:  "hello-world",
			wantOK:    true,
		},
		{
			name:   "gitlab remote is not github",
			url:    "git@gitlab.com:group/project.git",
			wantOK: false,
		},
		{
			name:   "local path is not github",
			url:    "/tmp/some/bare/repo",
			wantOK: false,
		},
		{
			name:   "https with missing repo segment",
			url:    "https://github.com/octocat",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ok := ParseGitHubRemote(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
