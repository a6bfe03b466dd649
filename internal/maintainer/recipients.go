package maintainer

import (
	"sort"
	"strings"
)

// maintainerRole is the role substring that routes a contact to To.
const maintainerRole = "maintainer"

// Recipients are the addresses a patch is mailed to.
//
// Both lists are sorted and free of duplicates. An address never appears in
// both lists.
type Recipients struct {
	To []string
	Cc []string
}

// IsMaintainer reports whether the contact's role marks it as a maintainer.
// The match is case-sensitive and may occur anywhere in the role text.
func (m Maintainer) IsMaintainer() bool {
	return strings.Contains(m.Role, maintainerRole)
}

// Classify splits maintainers into To and Cc recipients.
//
// A contact whose role contains "maintainer" goes to To, every other contact
// goes to Cc. Addresses are deduplicated by exact string equality. When the
// same address is listed both as a maintainer and under another role, the
// maintainer role wins and the address is only placed in To.
func Classify(maintainers []Maintainer) Recipients {
	to := make(map[string]struct{})
	cc := make(map[string]struct{})

	for _, m := range maintainers {
		if m.IsMaintainer() {
			to[m.Email] = struct{}{}
		} else {
			cc[m.Email] = struct{}{}
		}
	}

	for email := range to {
		delete(cc, email)
	}

	return Recipients{
		To: sortedKeys(to),
		Cc: sortedKeys(cc),
	}
}

// Empty reports whether there are no recipients at all.
func (r Recipients) Empty() bool {
	return len(r.To) == 0 && len(r.Cc) == 0
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
