package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/config"
	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/filter"
	"github.com/dfw-fab/fabsync/internal/logger"
	"github.com/dfw-fab/fabsync/internal/notifier"
	"github.com/dfw-fab/fabsync/internal/scraper"
	"github.com/dfw-fab/fabsync/internal/storage"
)

var flagDryRun bool

func registerSyncFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Fetch and filter events without touching the calendar")
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch listings and reconcile them onto the calendar",
		RunE:  runSync,
	}
	registerSyncFlags(cmd)
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx := cmd.Context()
	run := &syncRun{cfg: cfg, loc: loc, log: log}
	return run.execute(ctx)
}

// syncRun carries the state of one sync invocation.
type syncRun struct {
	cfg *config.Config
	loc *time.Location
	log *logger.Logger

	// failures collects messages for the end-of-run alert.
	failures []string
}

func (r *syncRun) execute(ctx context.Context) error {
	log := r.log
	log.Info("Starting sync", logger.Fields{
		"calendar": r.cfg.CalendarID,
		"dry_run":  flagDryRun,
	})

	dedup := event.NewDeduper(r.cfg.CalendarID)
	policy := &filter.Policy{
		MajorTypes:             r.cfg.MajorTypes,
		RadiusMiles:            r.cfg.TypeRadiusMiles,
		CountryWhitelist:       r.cfg.TypeCountryWhitelist,
		IncludeUnknownDistance: r.cfg.IncludeUnknownDistance,
	}

	included := 0
	for _, src := range r.sources() {
		n := r.collect(ctx, src, policy, dedup)
		included += n
		log.Info("Source processed", logger.Fields{"source": src.Name(), "included": n})
	}

	candidates := dedup.Candidates()
	log.Info("Candidates collected", logger.Fields{
		"included":    included,
		"after_dedup": len(candidates),
	})

	if flagDryRun {
		for _, c := range candidates {
			log.Info("Would upsert", logger.Fields{"category": c.Category, "title": c.Title})
		}
	} else {
		if err := r.reconcile(ctx, candidates); err != nil {
			return err
		}
	}

	if err := r.saveFeed(candidates); err != nil {
		log.Error("Feed write failed", nil, err)
		r.failures = append(r.failures, "feed write failed: "+err.Error())
	}

	r.alert(ctx)
	log.Info("Sync complete", logger.Fields{
		"events":   len(candidates),
		"failures": len(r.failures),
	})
	return nil
}

// sources builds the run's listing sources: the organised-play page for the
// majors, and the locator (HTML or API shape) for local events. Either URL
// may be empty to disable that side.
func (r *syncRun) sources() []scraper.Source {
	client := scraper.NewClient(r.cfg.RequestDelay())

	var sources []scraper.Source
	if r.cfg.GlobalURL != "" {
		sources = append(sources, scraper.NewOrganisedPlaySource(client, r.cfg.GlobalURL, r.log))
	}
	if r.cfg.LocalURL != "" {
		switch r.cfg.SourceKind {
		case config.SourceAPI:
			sources = append(sources, scraper.NewAPISource(client, r.cfg.LocalURL, r.cfg.SearchLocation, r.cfg.SearchRadius, r.log))
		default:
			sources = append(sources, scraper.NewLocatorSource(client, r.cfg.LocalURL, r.cfg.SearchLocation, r.cfg.SearchRadius, r.log))
		}
	}
	return sources
}

// collect fetches one source and feeds its fragments through extraction,
// classification, the inclusion policy and dedup. It returns the number
// of fragments that passed the policy. A source failure is recorded and
// the run continues with the other sources.
func (r *syncRun) collect(ctx context.Context, src scraper.Source, policy *filter.Policy, dedup *event.Deduper) int {
	frags, err := src.Fetch(ctx)
	if err != nil {
		r.log.Error("Source fetch failed", logger.Fields{"source": src.Name()}, err)
		r.failures = append(r.failures, src.Name()+" fetch failed: "+err.Error())
		return 0
	}

	ex := &scraper.Extractor{
		Now:        time.Now().In(r.loc),
		Loc:        r.loc,
		TargetYear: r.cfg.TargetYear,
		BaseURL:    r.baseURL(src),
		Log:        r.log,
	}

	included := 0
	for _, frag := range frags {
		c := ex.Extract(frag)
		reclassify(c, frag.Heading)

		ok, reason := policy.Include(c)
		if !ok {
			r.log.Debug("Excluded", logger.Fields{
				"title":  c.Title,
				"reason": reason,
			})
			continue
		}
		included++
		dedup.Add(c)
	}
	return included
}

func (r *syncRun) baseURL(src scraper.Source) string {
	if src.Name() == "organised-play" {
		return r.cfg.GlobalURL
	}
	return r.cfg.LocalURL
}

// reclassify refines a candidate's category from the raw heading. The query
// a fragment came from gives only a coarse label; the heading can carry the
// more specific one ("Pro Quest+" rather than "Pro Quest").
func reclassify(c *event.Candidate, heading string) {
	cat, ok := filter.Classify(heading)
	if !ok || cat == c.Category {
		return
	}
	c.Category = cat
	if c.StoreName != "" {
		c.Title = cat + ": " + c.StoreName
	}
}

// reconcile upserts every candidate in first-seen order. Individual upsert
// failures are recorded and skipped; the run keeps going.
func (r *syncRun) reconcile(ctx context.Context, candidates []*event.Candidate) error {
	backend, err := calendar.NewGoogleBackend(ctx, r.cfg.CalendarID, r.cfg.CredentialsFile)
	if err != nil {
		return err
	}
	rec := &calendar.Reconciler{
		Backend:           backend,
		Scope:             r.cfg.CalendarID,
		TZ:                r.loc,
		TZName:            r.cfg.Timezone,
		DefaultEventHours: r.cfg.DefaultEventHours,
		Log:               r.log,
	}

	counts := map[calendar.Action]int{}
	for _, c := range candidates {
		action, err := rec.Upsert(ctx, c)
		if err != nil {
			r.failures = append(r.failures, "upsert failed: "+c.Title)
			continue
		}
		counts[action]++
	}

	r.log.Info("Reconcile complete", logger.Fields{
		"inserted": counts[calendar.ActionInserted],
		"updated":  counts[calendar.ActionUpdated],
		"skipped":  counts[calendar.ActionSkipped],
	})
	return nil
}

func (r *syncRun) saveFeed(candidates []*event.Candidate) error {
	store, err := storage.New(r.cfg.DataDir)
	if err != nil {
		return err
	}
	return store.SaveFeed(r.cfg.CalendarID, candidates)
}

// alert delivers one Discord message when anything failed. A healthy run
// sends nothing.
func (r *syncRun) alert(ctx context.Context) {
	if len(r.failures) == 0 || r.cfg.DiscordWebhookURL == "" {
		return
	}
	n, err := notifier.NewDiscordNotifier(r.cfg.DiscordWebhookURL)
	if err != nil {
		r.log.Error("Notifier setup failed", nil, err)
		return
	}
	msg := fmt.Sprintf("FaB sync finished with %d failure(s):\n- %s",
		len(r.failures), strings.Join(r.failures, "\n- "))
	if err := n.Notify(ctx, msg); err != nil {
		r.log.Error("Alert delivery failed", nil, err)
	}
}
