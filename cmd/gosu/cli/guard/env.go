package guard

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
)

// envTail matches a standalone ".env" that is not default*.env or .env.example.
// It needs lookbehind and lookahead, so these run on regexp2.
const envTail = `(?<!\w)\.env(?!\w)(?!default(\..*)?\.env)(?!\.example)`

const envMatchTimeout = 250 * time.Millisecond

var envCommandPatterns = compileEnvPatterns(
	envTail,
	`cat\s+.*`+envTail,
	`echo\s+.*>\s*`+envTail,
	`touch\s+.*`+envTail,
	`cp\s+.*`+envTail,
	`mv\s+.*`+envTail,
)

// defaultEnvFile matches default.env and default.<anything>.env at the end of a path.
var defaultEnvFile = regexp.MustCompile(`default(\..*)?\.env$`)

func compileEnvPatterns(patterns ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re := regexp2.MustCompile(p, regexp2.None)
		re.MatchTimeout = envMatchTimeout
		out = append(out, re)
	}
	return out
}

var envTools = []string{
	claudecode.ToolRead,
	claudecode.ToolEdit,
	claudecode.ToolMultiEdit,
	claudecode.ToolWrite,
	claudecode.ToolBash,
}

// IsEnvFileAccess reports whether a tool call touches a .env file.
// Templates (.env.example) and default*.env files are not flagged.
func IsEnvFileAccess(toolName string, toolInput map[string]any) bool {
	if !slices.Contains(envTools, toolName) {
		return false
	}

	if toolName == claudecode.ToolBash {
		command, _ := toolInput["command"].(string) //nolint:errcheck // non-string reads as empty
		return isEnvCommand(command)
	}

	filePath, _ := toolInput["file_path"].(string) //nolint:errcheck // non-string reads as empty
	return isEnvFilePath(filePath)
}

func isEnvFilePath(filePath string) bool {
	if strings.HasSuffix(filePath, ".env.example") {
		return false
	}
	return strings.Contains(filePath, ".env") && !defaultEnvFile.MatchString(filePath)
}

func isEnvCommand(command string) bool {
	for _, re := range envCommandPatterns {
		matched, err := re.MatchString(command)
		// A timeout leaves the answer unknown; asking is the cautious outcome.
		if err != nil || matched {
			return true
		}
	}
	return false
}
