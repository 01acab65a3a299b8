package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/config"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/release"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/selector"
)

// ReleaseSource resolves a release tag to its metadata.
// *release.Client implements it.
type ReleaseSource interface {
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*release.Release, error)
}

// Manager orchestrates resolve, select, download and extract
type Manager struct {
	owner      string
	repo       string
	tempDir    string
	rules      selector.Rules
	source     ReleaseSource
	downloader *Downloader
	extractor  *Extractor
	logger     config.Logger
}

// Config holds configuration for the manager
type Config struct {
	// Owner and Repo identify the release repository (default: config.DefaultOwner, config.DefaultRepo)
	Owner string
	Repo  string
	// TempDir holds the downloaded archive (default: os.TempDir())
	TempDir string
	// Rules is the asset selection policy (default: selector.DefaultRules())
	Rules selector.Rules
	// Source resolves tags (default: release.NewClient())
	Source ReleaseSource
	// Downloader fetches the asset (default: NewDownloader())
	Downloader *Downloader
	// Logger receives progress messages (default: no-op)
	Logger config.Logger
}

// NewManager creates a new manager, filling unset fields with defaults
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Owner == "" {
		cfg.Owner = config.DefaultOwner
	}
	if cfg.Repo == "" {
		cfg.Repo = config.DefaultRepo
	}
	if cfg.Rules == nil {
		cfg.Rules = selector.DefaultRules()
	}
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("at least one selection rule is required")
	}
	if cfg.Source == nil {
		cfg.Source = release.NewClient()
	}
	if cfg.Downloader == nil {
		cfg.Downloader = NewDownloader()
	}
	if cfg.Logger == nil {
		cfg.Logger = config.NopLogger()
	}

	return &Manager{
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		tempDir:    cfg.TempDir,
		rules:      cfg.Rules,
		source:     cfg.Source,
		downloader: cfg.Downloader,
		extractor:  NewExtractor(),
		logger:     cfg.Logger,
	}, nil
}

// Install fetches the asset selected from release req.Tag and extracts it
// into req.OutputDir. The downloaded archive is removed before Install
// returns, whether or not extraction succeeded. Nothing is written to disk
// when resolution or selection fails.
func (m *Manager) Install(ctx context.Context, req Request) (*InstallResult, error) {
	start := time.Now()

	tag := req.Tag
	if tag == "" {
		tag = DefaultTag
	}
	outDir := req.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	m.logger.Debug("resolving release", "owner", m.owner, "repo", m.repo, "tag", tag)
	rel, err := m.source.GetReleaseByTag(ctx, m.owner, m.repo, tag)
	if err != nil {
		return nil, fmt.Errorf("resolve release %s: %w", tag, err)
	}
	m.logger.Debug("release resolved", "tag", tag, "assets", len(rel.Assets))

	asset, rule, err := selector.SelectWithRule(tag, rel.Assets, m.rules)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("asset selected", "asset", asset.Name, "rule", rule.String())

	format, err := DetectFormat(asset.Name)
	if err != nil {
		return nil, err
	}
	if asset.BrowserDownloadURL == "" {
		return nil, fmt.Errorf("asset %q has empty browser_download_url", asset.Name)
	}

	archivePath := TempPath(m.tempDir, asset.Name)
	defer func() {
		if err := RemoveTemp(archivePath); err != nil {
			m.logger.Warn("failed to remove temporary archive", "path", archivePath, "error", err)
		}
	}()

	m.logger.Info("downloading", "asset", asset.Name, "path", archivePath)
	if err := m.downloader.DownloadToFile(ctx, asset.BrowserDownloadURL, archivePath); err != nil {
		return nil, fmt.Errorf("download %s: %w", asset.Name, err)
	}

	m.logger.Info("extracting", "asset", asset.Name, "format", format.String(), "dest", outDir)
	if err := m.extractor.Extract(archivePath, format, outDir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", asset.Name, err)
	}

	return &InstallResult{
		Tag:         tag,
		Asset:       asset,
		Rule:        rule.String(),
		Format:      format,
		OutputDir:   outDir,
		ArchivePath: archivePath,
		Duration:    time.Since(start),
	}, nil
}
