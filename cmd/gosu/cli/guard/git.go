package guard

import (
	"regexp"
	"strings"
)

// dangerousGitPatterns run against the lowercased, whitespace-collapsed
// command. Order only matters for readability; any hit is dangerous.
var dangerousGitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`git\s+reset\s+--hard`),
	// -f anywhere in the leading cluster; a dry run (-n) has no f.
	regexp.MustCompile(`git\s+clean\s+-[a-z]*f`),
	regexp.MustCompile(`git\s+reflog\s+expire\s+--expire=now\s+--all`),
	regexp.MustCompile(`git\s+push\s+--force`),
	regexp.MustCompile(`git\s+push\s+-f`),
	regexp.MustCompile(`git\s+branch\s+-d\s+.*`),
	regexp.MustCompile(`git\s+branch\s+-D\s+.*`),
	regexp.MustCompile(`git\s+tag\s+-d\s+.*`),
	regexp.MustCompile(`git\s+remote\s+remove\s+.*`),
	regexp.MustCompile(`git\s+filter-branch`),
	regexp.MustCompile(`git\s+update-ref\s+-d`),
	regexp.MustCompile(`git\s+checkout\s+--orphan`),
}

// IsDangerousGit reports whether command contains a destructive git operation
// anywhere in it, including after && or ; separators.
func IsDangerousGit(command string) bool {
	normalized := strings.Join(strings.Fields(strings.ToLower(command)), " ")
	for _, re := range dangerousGitPatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}
