// Command contentseed copies a content directory into Firestore so the site can
// switch from file-backed content to the managed store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
	"github.com/bandipurcablecar/website-sub001/internal/platform/config"
	pfirestore "github.com/bandipurcablecar/website-sub001/internal/platform/firestore"
	"github.com/bandipurcablecar/website-sub001/internal/platform/observability"
)

func main() {
	dir := flag.String("dir", "content", "content directory to import")
	project := flag.String("project", os.Getenv("GOOGLE_CLOUD_PROJECT"), "Firestore project ID")
	emulator := flag.String("emulator", os.Getenv("FIRESTORE_EMULATOR_HOST"), "Firestore emulator host")
	dryRun := flag.Bool("dry-run", false, "list records without writing")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger = logger.Named("contentseed")

	if err := run(context.Background(), logger, *dir, *project, *emulator, *dryRun); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, dir, project, emulator string, dryRun bool) error {
	source, err := contentstore.LoadDir(dir)
	if err != nil {
		return err
	}

	var target *contentstore.Firestore
	if !dryRun {
		if project == "" {
			return fmt.Errorf("-project is required")
		}
		provider := pfirestore.NewProvider(config.FirestoreConfig{ProjectID: project, EmulatorHost: emulator})
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Close(closeCtx); err != nil {
				logger.Warn("firestore close error", zap.Error(err))
			}
		}()
		target, err = contentstore.NewFirestore(provider)
		if err != nil {
			return err
		}
		logger.Info("seeding firestore", zap.String("target", provider.Target()))
	}

	total := 0
	for _, collection := range source.Collections() {
		records, err := source.Query(ctx, collection, nil, nil)
		if err != nil {
			return err
		}
		written := len(records)
		if target != nil {
			written, err = target.PutAll(ctx, collection, records)
			if err != nil {
				return fmt.Errorf("seed %s: %w", collection, err)
			}
		}
		total += written
		logger.Info("collection seeded",
			zap.String("collection", collection),
			zap.Int("records", written),
			zap.Bool("dry_run", dryRun),
		)
	}
	logger.Info("seed complete", zap.Int("records", total))
	return nil
}
