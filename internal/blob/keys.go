package blob

import (
	"path"
	"strings"
)

// DocumentKey returns the key a claim document's content is stored under:
// claims/<application id>/documents/<document id>/<file name>.
func DocumentKey(applicationID, documentID, fileName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "content"
	}
	return path.Join("claims", applicationID, "documents", documentID, name)
}

// ClaimPrefix returns the key prefix shared by every document of a claim.
func ClaimPrefix(applicationID string) string {
	return path.Join("claims", applicationID) + "/"
}
