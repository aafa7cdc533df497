package postmeta

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"github.com/inful/mdfp"
)

// Fingerprint hashes a raw document (frontmatter and body) into a stable
// content fingerprint. Documents whose frontmatter cannot be split are
// hashed as a body.
func Fingerprint(raw []byte) string {
	fm, body, had, err := frontmatter.Split(raw)
	if err != nil || !had {
		return mdfp.CalculateFingerprintFromParts("", string(raw))
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body))
}
