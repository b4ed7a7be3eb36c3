package convert

import "testing"

func TestSanitizeToolName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name untouched", "listPets", "listPets"},
		{"dots become underscores", "get.user", "get_user"},
		{"invalid characters become underscores", "get user/v2!", "get_user_v2_"},
		{"hyphens and digits survive", "get-user-2", "get-user-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeToolName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeToolName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeToolName(got); again != got {
				t.Errorf("sanitization is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestDeriveOperationID(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"simple path", "GET", "/pets", "get_pets"},
		{"path parameter", "GET", "/users/{id}", "get_users_by_id"},
		{"nested parameters", "POST", "/orgs/{org}/repos/{repo}/issues", "post_orgs_by_org_repos_by_repo_issues"},
		{"root path", "DELETE", "/", "delete"},
		{"no method", "", "/pets", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveOperationID(tt.method, tt.path); got != tt.want {
				t.Errorf("DeriveOperationID(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestNameRegistryCollisions(t *testing.T) {
	names := newNameRegistry()

	claims := []struct {
		base string
		want string
	}{
		{"get_user", "get_user"},
		{"get_user", "get_user_1"},
		{"get_user", "get_user_2"},
		{"list_pets", "list_pets"},
		{"list_pets", "list_pets_1"},
	}

	for _, c := range claims {
		if got := names.claim(c.base); got != c.want {
			t.Errorf("claim(%q) = %q, want %q", c.base, got, c.want)
		}
	}
}
