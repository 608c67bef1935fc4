package download

import (
	"fmt"

	"github.com/tmget/tm-downloader/internal/config"
)

// BuildFetchArgs builds the tool invocation for one download. The contract
// with the tool: write the file to dest, exit zero only on success. The
// browser user agent and referer satisfy the video host's hotlink checks;
// --quiet keeps tool output to errors since progress comes from our own
// reporting.
func BuildFetchArgs(cfg config.Config, url, dest string) []string {
	return []string{
		"--user-agent=" + cfg.UserAgent,
		"--referer=" + cfg.Referer,
		fmt.Sprintf("--timeout=%d", cfg.ToolTimeoutSec),
		fmt.Sprintf("--tries=%d", cfg.ToolTries),
		"--quiet",
		"-O", dest,
		url,
	}
}
