package providers

import (
	"github.com/samber/do/v2"

	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// ProvideViews provides the view policies, from the views file when one is configured.
func ProvideViews(i do.Injector) (*config.Views, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	views, err := config.LoadViews(cfg.Dataset.ViewsFile)
	if err != nil {
		return nil, err
	}

	log.Info("Views loaded", "views", views.Names(), "default", views.Default().Name)
	return views, nil
}

// ProvideDatasetSource provides the dataset source. Nothing is read until a run.
func ProvideDatasetSource(i do.Injector) (dataset.Source, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return dataset.New(cfg.Dataset.Path, dataset.Options{
		FetchTimeout: cfg.Dataset.FetchTimeout,
	}), nil
}

// ProvideAtlasService provides the atlas service.
func ProvideAtlasService(i do.Injector) (*service.AtlasService, error) {
	source := do.MustInvoke[dataset.Source](i)
	views := do.MustInvoke[*config.Views](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAtlasService(source, views, log), nil
}
