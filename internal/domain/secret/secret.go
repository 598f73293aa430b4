// Package secret models Secret Manager secrets and their versions.
package secret

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// LatestVersion is the alias Secret Manager resolves to the newest enabled version.
const LatestVersion = "latest"

// idPattern follows the Secret Manager secret ID rules.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,255}$`)

// Replication is the replication policy of a secret.
type Replication string

const (
	ReplicationAutomatic   Replication = "AUTOMATIC"
	ReplicationUserManaged Replication = "USER_MANAGED"
)

// VersionState is the lifecycle state of a secret version.
type VersionState string

const (
	StateEnabled   VersionState = "ENABLED"
	StateDisabled  VersionState = "DISABLED"
	StateDestroyed VersionState = "DESTROYED"
)

// String implements fmt.Stringer.
func (s VersionState) String() string {
	return string(s)
}

// Secret is a named container of versions.
type Secret struct {
	Name        string
	Replication Replication
	Labels      map[string]string
	CreateTime  time.Time
}

// Version is a single immutable payload revision of a secret.
type Version struct {
	Name       string
	State      VersionState
	CreateTime time.Time
}

// Name builds "projects/{project}/secrets/{id}".
func Name(project, id string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", project, id)
}

// VersionName builds "projects/{project}/secrets/{id}/versions/{version}".
// An empty version resolves to LatestVersion.
func VersionName(project, id, version string) string {
	if version == "" {
		version = LatestVersion
	}
	return Name(project, id) + "/versions/" + version
}

// ParentName builds the "projects/{project}" parent used for listing.
func ParentName(project string) string {
	return "projects/" + project
}

// ShortID returns the last path segment of a resource name.
func ShortID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ValidateID checks a secret ID against the naming rules.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return domain.NewValidationError("secret", fmt.Sprintf("invalid secret id %q", id))
	}
	return nil
}
