package gate

import (
	"regexp"
	"strings"

	"signalradar/internal/domain"
)

// MaintainerGate verifies that the author actually speaks as a project
// maintainer rather than as a user venting about someone else's software.
// Each matched ownership phrase counts as one signal; a repository URL owned
// by the post author counts as one more.
type MaintainerGate struct {
	patterns []*regexp.Regexp
}

func NewMaintainerGate() *MaintainerGate {
	return &MaintainerGate{patterns: compilePatterns(rawMaintainerPatterns)}
}

// Signals counts distinct maintainer-context markers in the post. Zero means
// the post fails the gate.
func (g *MaintainerGate) Signals(post domain.RawPost) int {
	text := post.Text()
	count := 0
	for _, re := range g.patterns {
		if re.MatchString(text) {
			count++
		}
	}
	if g.ownsLinkedRepo(post) {
		count++
	}
	return count
}

func (g *MaintainerGate) ownsLinkedRepo(post domain.RawPost) bool {
	author := strings.TrimSpace(post.Author)
	if author == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)github\.com/` + regexp.QuoteMeta(author) + `/`)
	if err != nil {
		return false
	}
	return re.MatchString(post.Text())
}
