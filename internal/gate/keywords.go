package gate

import (
	"regexp"

	"signalradar/internal/domain"
)

// rawKeywordPatterns maps each pain category to its admission patterns.
// Patterns are compiled case-insensitively once at process start; the set is
// closed and covers all 15 categories.
var rawKeywordPatterns = map[domain.PainCategory][]string{
	domain.PainBurnout: {
		`\bburnou?t\b`,
		`\bburnt\b`,
		`\bburned?\s+out\b`,
		`\bexhausted?\b`,
		`\bquitting\b`,
		`\bstepping down\b`,
		`\bgiving up\b`,
		`\bno longer maintain`,
		`\btoo tired\b`,
		`\bmentally drained\b`,
		`\bunpaid work\b`,
		`\bsolo maintainer\b`,
		`\bworn out\b`,
		`\boverwhel`,
		`\bno time\b`,
		`\bfree time\b`,
	},
	domain.PainFunding: {
		`\bfunding\b`,
		`\bsustainab`,
		`\bdonat`,
		`\bsponsorship\b`,
		`\bopen collective\b`,
		`\bgithub sponsors\b`,
		`\bpatreon\b`,
		`\bno budget\b`,
		`\bunfunded\b`,
		`\bvolunteer work\b`,
		`\bfinancially\b`,
		`\bpaid maintainer\b`,
		`\bfull[ -]time oss\b`,
		`\bmonetary support\b`,
	},
	domain.PainToxicUsers: {
		`\btoxic\b`,
		`\bharassment\b`,
		`\babusive user`,
		`\bentitled user`,
		`\brude\b`,
		`\bdisrespect`,
		`\binsult`,
		`\baggressive comment`,
		`\bnasty\b`,
		`\bdemanding user`,
		`\bthreat`,
		`\bhostile`,
	},
	domain.PainMaintenanceBurden: {
		`\bmaintenance burden\b`,
		`\btoo many issues\b`,
		`\bpr backlog\b`,
		`\bpull request backlog\b`,
		`\bissue backlog\b`,
		`\blegacy code\b`,
		`\btechnical debt\b`,
		`\brefactor\b`,
		`\buntestable\b`,
		`\bhard to maintain\b`,
		`\bnobody reviews\b`,
		`\bstale pr\b`,
		`\bbandaid fix\b`,
		`\bmemory leak\b`,
		`\bperformance regression\b`,
		`\bregression\b`,
	},
	domain.PainDependencyHell: {
		`\bdependency hell\b`,
		`\bdep conflict\b`,
		`\bdependency conflicts?\b`,
		`\bbroken dependency\b`,
		`\bupper bound\b`,
		`\bversion pinning\b`,
		`\bdiamond dependency\b`,
		`\btransitive dep`,
		`\bincompatible ver`,
		`\bdependabot\b`,
		`\brenovate\b`,
		`\bpeer dep`,
		`\b(npm|pip|cargo|maven) install fail`,
		`\bdependency audit\b`,
		`\bdependency management\b`,
	},
	domain.PainSecurityPressure: {
		`\bsecurity vulner`,
		`\bvulnerabilit`,
		`\bcve-\d{4}`,
		`\bsecurity patch\b`,
		`\bsecurity audit\b`,
		`\bsecurity disclosure\b`,
		`\bresponsible disclos`,
		`\bzero[ -]day\b`,
		`\brce\b`,
		`\bsecurity report\b`,
		`\bsupply chain attack\b`,
		`\bmalicious package\b`,
		`\btyposquat`,
		`\bsast\b`,
	},
	domain.PainBreakingChanges: {
		`\bbreaking changes?\b`,
		`\bbreaking api\b`,
		`\bapi breaking\b`,
		`\bapi break`,
		`\bdeprecated\b`,
		`\bmajor version\b`,
		`\bsemver\b`,
		`\bbackward compat`,
		`\bbackwards compat`,
		`\bremoved in v\d`,
		`\bremoved api\b`,
		`\bmigration guide\b`,
		`\bupgrade guide\b`,
		`\bno longer support`,
	},
	domain.PainDocumentation: {
		`\bdocumentation\b`,
		`\bdocs are\b`,
		`\bpoor docs\b`,
		`\bno docs\b`,
		`\bmissing docs\b`,
		`\bwrong docs\b`,
		`\bstale docs\b`,
		`\bno readme\b`,
		`\bno example`,
		`\bconfusing docs\b`,
		`\bhard to understand\b`,
		`\bcan'?t find doc`,
	},
	domain.PainContributorFriction: {
		`\bcontribut`,
		`\bfirst pr\b`,
		`\bno contributors\b`,
		`\bcontribution guide\b`,
		`\bhigh barrier\b`,
		`\bdev setup\b`,
		`\bdev environment\b`,
		`\bignored pr\b`,
		`\bgood first issue\b`,
		`\bno review\b`,
	},
	domain.PainCorporateExploitation: {
		`\bcorporate exploit`,
		`\bfree rider\b`,
		`\bfree[ -]riding\b`,
		`\bexploit.*open source\b`,
		`\bno contribution back\b`,
		`\bnot giving back\b`,
		`\bbig (company|corp|tech).*use\b`,
		`\bno upstream\b`,
		`\blicens.*violat`,
		`\bwhite[ -]label\b`,
		`\bsteal.*code\b`,
	},
	domain.PainScopeCreep: {
		`\bscope creep\b`,
		`\bfeature creep\b`,
		`\btoo many features\b`,
		`\bbloat\b`,
		`\bfeature request flood\b`,
		`\bnot designed for\b`,
		`\bout of scope\b`,
		`\bdo one thing\b`,
		`\bfeature fatigue\b`,
		`\bunix philosophy\b`,
	},
	domain.PainToolingFatigue: {
		`\btooling fatigue\b`,
		`\bbuild tool`,
		`\bflaky test`,
		`\bbroken build\b`,
		`\binfrastructure cost\b`,
		`\bcloud cost\b`,
		`\btoo many tools\b`,
		`\bpackage manager hell\b`,
		`\btest coverage\b`,
		`\brelease process\b`,
		`\brelease.*pain\b`,
	},
	domain.PainGovernance: {
		`\bgovernance\b`,
		`\bcode of conduct\b`,
		`\bproject direction\b`,
		`\bbenevolent dict`,
		`\bbdfl\b`,
		`\bdecision making\b`,
		`\bfork\b`,
		`\bcore team\b`,
		`\bsteering commit`,
		`\bdispute\b`,
		`\bcontro?vers`,
	},
	domain.PainAbuse: {
		`\babuse\b`,
		`\bspam\b`,
		`\bbot attack\b`,
		`\btroll\b`,
		`\bmalicious\b`,
		`\bdmca\b`,
		`\bcopyright claim\b`,
		`\blegal.*threat\b`,
		`\blitigat`,
	},
	domain.PainCICD: {
		`\bci[/ _-]?cd\b`,
		`\bcontinuous integrat`,
		`\bcontinuous deliver`,
		`\bpipeline.*fail`,
		`\bfailed.*pipeline\b`,
		`\bgithub actions.*fail`,
		`\bflaky.*ci\b`,
		`\bci.*broken\b`,
		`\bdeploy.*fail`,
		`\brelease.*fail`,
		`\btest.*fail\b`,
		`\bbuild.*fail\b`,
		`\bnightly.*fail`,
	},
}

// rawMaintainerPatterns are the first-person project-ownership markers the
// MaintainerContext gate looks for.
var rawMaintainerPatterns = []string{
	`\bmy repo\b`,
	`\bmy project\b`,
	`\bi maintain\b`,
	`\bwe maintain\b`,
	`\bour library\b`,
	`\bi'?m the author\b`,
	`\bi released\b`,
	`\bour maintainers?\b`,
	`\bpull request\b`,
	`\bmerged\b`,
	`\bopened an issue\b`,
	`\breleased v\d`,
	`\bas (the|a) maintainer\b`,
	`\bsole maintainer\b`,
	`\bproject maintainer\b`,
	`\bi authored\b`,
	`\bmy library\b`,
	`\bmy package\b`,
	`\bmy crate\b`,
	`\bmy gem\b`,
	`\bi created\b`,
	`\bwe released\b`,
	`\bour project\b`,
	`\bour repo\b`,
	`\bwe published\b`,
	`\bi published\b`,
}

func compilePatterns(raw []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		compiled = append(compiled, regexp.MustCompile(`(?is)`+p))
	}
	return compiled
}
