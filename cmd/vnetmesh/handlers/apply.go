// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and can
// be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"

	"github.com/perimeterlab/vnetmesh/internal/config"
	"github.com/perimeterlab/vnetmesh/internal/peering"
	"github.com/perimeterlab/vnetmesh/internal/platform/azure"
	"github.com/perimeterlab/vnetmesh/internal/platform/objstore"
	"github.com/perimeterlab/vnetmesh/internal/report"
)

// ErrCriticalFailures signals that the run finished but one or more peering
// creates exhausted their retries. The report carries the details.
var ErrCriticalFailures = errors.New("run completed with critical peering failures, see report")

// ApplyOptions carries the apply command's flag values.
type ApplyOptions struct {
	ConfigPath  string
	DryRun      bool
	SkipCleanup bool
	Workers     int
	ReportDir   string
	Verbose     bool
}

// reportArchiver uploads rendered report files to object storage.
type reportArchiver interface {
	EnsureBucket(ctx context.Context) error
	ArchiveRun(ctx context.Context, paths ...string) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads the run configuration from a YAML file.
	loadConfigFile = config.LoadFile

	// loadCredentials reads the service-principal credentials from the environment.
	loadCredentials = config.LoadCredentialsFromEnv

	// loadTimeouts reads timeout overrides from the environment.
	loadTimeouts = config.LoadTimeouts

	// newLogger builds the run logger.
	newLogger = func(verbose bool) (*zap.Logger, error) {
		if verbose {
			return zap.NewDevelopment()
		}
		return zap.NewProduction()
	}

	// newCredential builds the token credential used for all remote calls.
	newCredential = func(creds config.Credentials) (azcore.TokenCredential, error) {
		return azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret, nil)
	}

	// newClient creates a network client for one subscription.
	newClient = func(subscriptionID string, cred azcore.TokenCredential, timeouts *config.Timeouts) (azure.Client, error) {
		return azure.NewRealClient(subscriptionID, cred, &azure.Options{OperationTimeout: timeouts.Operation})
	}

	// listSubscriptions discovers every enabled subscription in the tenant.
	listSubscriptions = azure.ListEnabledSubscriptions

	// writeReportFiles renders and writes the report to disk.
	writeReportFiles = report.WriteFiles

	// newArchiver creates the object storage archiver for report upload.
	newArchiver = func(endpoint, region, bucket, prefix, accessKey, secretKey string) (reportArchiver, error) {
		return objstore.New(endpoint, region, bucket, prefix, accessKey, secretKey)
	}

	// loadArchiveKeys reads the archive access keys from the environment.
	loadArchiveKeys = config.LoadArchiveKeysFromEnv
)

// Apply runs a full reconciliation: scan every region pair, converge the hub
// and spoke cross product, sweep orphans unless disabled, and write the
// report. A run whose creates exhausted retries returns ErrCriticalFailures
// after the report is written.
func Apply(ctx context.Context, opts ApplyOptions) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadRunConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.DryRun {
		cfg.DryRun = true
	}
	if opts.SkipCleanup {
		cfg.SkipCleanup = true
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.ReportDir != "" {
		cfg.ReportDir = opts.ReportDir
	}

	timeouts := loadTimeouts()
	clients, hubSubs, spokeSubs, err := buildClients(ctx, cfg, timeouts, log)
	if err != nil {
		return err
	}

	log.Info("starting reconciliation",
		zap.Int("hubSubscriptions", len(hubSubs)),
		zap.Int("spokeSubscriptions", len(spokeSubs)),
		zap.Int("regionPairs", len(cfg.RegionPairs)),
		zap.Bool("dryRun", cfg.DryRun))

	rep := report.New()
	runner := peering.NewRunner(cfg, timeouts, clients, hubSubs, spokeSubs, rep, log)
	runErr := runner.Run(ctx)

	// Write whatever was collected even when the run was cut short, so an
	// interrupted run still leaves a partial report behind.
	if err := finishReport(ctx, cfg, rep, log); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if rep.HasCriticalFailures() {
		return ErrCriticalFailures
	}
	return nil
}
