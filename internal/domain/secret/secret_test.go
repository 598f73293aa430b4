package secret

import "testing"

func TestNames(t *testing.T) {
	t.Parallel()

	if got, want := Name("p", "s"), "projects/p/secrets/s"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := VersionName("p", "s", "3"), "projects/p/secrets/s/versions/3"; got != want {
		t.Errorf("VersionName() = %q, want %q", got, want)
	}
	if got, want := VersionName("p", "s", ""), "projects/p/secrets/s/versions/latest"; got != want {
		t.Errorf("VersionName(empty) = %q, want %q", got, want)
	}
	if got, want := ParentName("p"), "projects/p"; got != want {
		t.Errorf("ParentName() = %q, want %q", got, want)
	}
	if got := ShortID("projects/p/secrets/s/versions/7"); got != "7" {
		t.Errorf("ShortID() = %q, want 7", got)
	}
	if got := ShortID("plain"); got != "plain" {
		t.Errorf("ShortID(plain) = %q, want plain", got)
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"my-secret", "S_1"} {
		if err := ValidateID(ok); err != nil {
			t.Errorf("ValidateID(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "has/slash", "dot.ted"} {
		if err := ValidateID(bad); err == nil {
			t.Errorf("ValidateID(%q) = nil, want error", bad)
		}
	}
}
