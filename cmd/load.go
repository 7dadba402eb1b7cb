package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dhcgn/spool-pager/config"
	"github.com/dhcgn/spool-pager/filter"
	"github.com/dhcgn/spool-pager/mbox"
	"github.com/dhcgn/spool-pager/stats"
)

// LoadStore reads the mailbox or mailbox directory selected by cfg.
// In single-file mode an unreadable spool is fatal; in directory mode only an
// unreadable directory is.
func LoadStore(cfg config.Config, logger *slog.Logger) (*mbox.Store, *stats.Collector, error) {
	format, err := mbox.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	opts := mbox.Options{
		Format:    format,
		Collector: stats.NewCollector(),
		Logger:    logger,
	}

	filterOpts := filter.Options{
		IncludeHeader: cfg.IncludeHeader,
		IncludeBody:   cfg.IncludeBody,
		ExcludeHeader: cfg.ExcludeHeader,
		ExcludeBody:   cfg.ExcludeBody,
	}
	if !filterOpts.Empty() {
		if opts.Filter, err = filter.New(filterOpts); err != nil {
			return nil, nil, fmt.Errorf("create filter: %w", err)
		}
	}

	var store *mbox.Store
	if cfg.SingleFile() {
		store, err = mbox.FromPath(cfg.SpoolPath(), opts)
		if err != nil {
			return nil, nil, fmt.Errorf("user %s has no readable mail file: %w", cfg.User, err)
		}
	} else {
		store, err = mbox.FromDirectory(cfg.MailPath, cfg.Skip, opts)
		if err != nil {
			return nil, nil, err
		}
	}

	return store, opts.Collector, nil
}
