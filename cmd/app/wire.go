//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/lifelink/report-analyzer/internal/bootstrap"
	"github.com/lifelink/report-analyzer/internal/domain/report"
	"github.com/lifelink/report-analyzer/internal/infra/config"
	httpiface "github.com/lifelink/report-analyzer/internal/interface/http"
	"github.com/lifelink/report-analyzer/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		providePipelineConfig,
		provideExtractor,
		provideTextGenerator,
		provideRenderer,
		provideSpeechSynthesizer,
		provideSessionStore,
		provideSummaryHistory,
		provideArtifactArchive,
		provideTokenBudget,
		report.NewService,
		wire.Bind(new(httpiface.ReportService), new(*report.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
