package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

// loadRunConfig loads and validates the configuration file and attaches the
// environment credentials.
func loadRunConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigFile
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds

	return cfg, nil
}

// buildClients authenticates, resolves the hub and spoke subscription sets,
// and builds one client per reachable subscription. The client set is keyed
// by lower-cased subscription ID; a subscription whose client cannot be built
// is skipped with a warning rather than failing the run.
func buildClients(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts, log *zap.Logger) (azure.ClientSet, []string, []string, error) {
	cred, err := newCredential(cfg.Credentials)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build credential: %w", err)
	}

	hubSubs := lowerAll(cfg.HubSubscriptions)
	spokeSubs := resolveSpokeSubscriptions(ctx, cfg, cred, hubSubs, log)

	clients := make(azure.ClientSet)
	for _, subID := range union(hubSubs, spokeSubs) {
		client, err := newClient(subID, cred, timeouts)
		if err != nil {
			log.Warn("failed to create client for subscription, skipping",
				zap.String("subscription", subID), zap.Error(err))
			continue
		}
		clients[subID] = client
	}
	if len(clients) == 0 {
		return nil, nil, nil, fmt.Errorf("no subscription clients could be created")
	}

	return clients, hubSubs, spokeSubs, nil
}

// resolveSpokeSubscriptions discovers every enabled subscription in the
// tenant and removes the excluded ones. When discovery fails the run degrades
// to the hub subscriptions instead of aborting.
func resolveSpokeSubscriptions(ctx context.Context, cfg *config.Config, cred azcore.TokenCredential, hubSubs []string, log *zap.Logger) []string {
	discovered, err := listSubscriptions(ctx, cred)
	if err != nil {
		log.Warn("subscription discovery failed, degrading to hub subscriptions", zap.Error(err))
		return hubSubs
	}

	var spokes []string
	for _, sub := range discovered {
		if cfg.IsExcluded(sub.ID) {
			log.Debug("subscription excluded from spoke search",
				zap.String("subscription", sub.ID),
				zap.String("name", sub.DisplayName))
			continue
		}
		spokes = append(spokes, strings.ToLower(sub.ID))
	}
	return spokes
}

// finishReport writes the rendered report to disk and, when archival is
// configured, uploads it. Upload failures are logged but never fail a run
// whose report is already on disk.
func finishReport(ctx context.Context, cfg *config.Config, rep *report.Report, log *zap.Logger) error {
	snap := rep.Snapshot()

	htmlPath, jsonPath, err := writeReportFiles(cfg.ReportDir, snap)
	if err != nil {
		return err
	}
	log.Info("report written",
		zap.String("html", htmlPath),
		zap.String("json", jsonPath))

	if cfg.Archive == nil {
		return nil
	}

	keys, err := loadArchiveKeys()
	if err != nil {
		log.Warn("report archival skipped", zap.Error(err))
		return nil
	}

	archiver, err := newArchiver(cfg.Archive.Endpoint, cfg.Archive.Region, cfg.Archive.Bucket, cfg.Archive.Prefix, keys.AccessKey, keys.SecretKey)
	if err != nil {
		log.Warn("failed to create report archiver", zap.Error(err))
		return nil
	}
	if err := archiver.EnsureBucket(ctx); err != nil {
		log.Warn("failed to ensure archive bucket", zap.Error(err))
		return nil
	}
	if err := archiver.ArchiveRun(ctx, htmlPath, jsonPath); err != nil {
		log.Warn("failed to archive report", zap.Error(err))
		return nil
	}

	log.Info("report archived",
		zap.String("bucket", cfg.Archive.Bucket),
		zap.String("prefix", cfg.Archive.Prefix))
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
