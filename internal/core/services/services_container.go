package services

import (
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

// ContainerOption customizes optional collaborators of the service container.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	validators  map[domain.EntityType][]portssvc.Validator
	automation  portssvc.AutomationHook
	notifier    portssvc.Notifier
	refResolver schema.RefResolver
}

// WithValidators installs the per-entity-type business rule lists.
func WithValidators(validators map[domain.EntityType][]portssvc.Validator) ContainerOption {
	return func(o *containerOptions) {
		o.validators = validators
	}
}

// WithAutomationHook installs the post-commit automation collaborator.
func WithAutomationHook(hook portssvc.AutomationHook) ContainerOption {
	return func(o *containerOptions) {
		o.automation = hook
	}
}

// WithNotifier installs the post-commit change notification sink.
func WithNotifier(notifier portssvc.Notifier) ContainerOption {
	return func(o *containerOptions) {
		o.notifier = notifier
	}
}

// WithRefResolver installs the cross-reference name resolver used in audit text.
func WithRefResolver(resolver schema.RefResolver) ContainerOption {
	return func(o *containerOptions) {
		o.refResolver = resolver
	}
}

// NewServiceContainer creates a new service container with properly initialized
// dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	options := containerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	container := &portssvc.ServiceContainer{}

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.History = NewHistoryService(repos.HistoryRepo)
	container.Settings = NewSettingsService(SettingsServiceDeps{
		EntityRepo:   repos.EntityRepo,
		SettingsRepo: repos.SettingsRepo,
		Rates:        container.ExchangeRate,
		Renderer:     NewChangeRenderer(options.refResolver),
		Validators:   options.validators,
		Automation:   options.automation,
		Notifier:     options.notifier,
	})

	return container
}
