// Package scrape wires the per-ATS adapters together and runs the
// sequential scrape loop over the company registry.
package scrape

import (
	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/ashby"
	"genzjobs-scraper/internal/scrape/greenhouse"
	"genzjobs-scraper/internal/scrape/lever"
	"genzjobs-scraper/internal/scrape/recruitee"
	"genzjobs-scraper/internal/scrape/smartrecruiters"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
	"genzjobs-scraper/internal/scrape/workable"
	"genzjobs-scraper/internal/scrape/workday"
)

// Adapters builds the full adapter set keyed by platform. All adapters share
// one per-host limiter so the orchestrator can hand any of them the same
// budget.
func Adapters(limiter *util.HostLimiter, log *zap.Logger) map[domain.Platform]types.Adapter {
	return map[domain.Platform]types.Adapter{
		domain.PlatformGreenhouse:      greenhouse.New(limiter, log),
		domain.PlatformLever:           lever.New(limiter, log),
		domain.PlatformAshby:           ashby.New(limiter, log),
		domain.PlatformSmartRecruiters: smartrecruiters.New(limiter, log),
		domain.PlatformWorkday:         workday.New(limiter, log),
		domain.PlatformWorkable:        workable.New(limiter, log),
		domain.PlatformRecruitee:       recruitee.New(limiter, log),
	}
}
