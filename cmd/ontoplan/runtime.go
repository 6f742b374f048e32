package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ontoplan/ontoplan/pkg/catalog"
	"github.com/ontoplan/ontoplan/pkg/config"
	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/llms"
	"github.com/ontoplan/ontoplan/pkg/model"
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/oracle"
	"github.com/ontoplan/ontoplan/pkg/pipeline"
	"github.com/ontoplan/ontoplan/pkg/planning"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// runtime is the fully wired application: the semantic layer plus the
// pipeline running against it.
type runtime struct {
	layer    *semantic.Layer
	pipeline *pipeline.Pipeline
	registry *prometheus.Registry
}

// buildRuntime assembles the pipeline from configuration: ontology store,
// tool catalog, semantic layer, LLM-backed oracles, and metrics.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	store, err := ontology.Load(cfg.Ontology.Path)
	if err != nil {
		return nil, err
	}

	reg := semantic.NewToolRegistry()
	if err := catalog.Register(reg); err != nil {
		return nil, err
	}

	layer, err := semantic.Build(store, reg)
	if err != nil {
		return nil, err
	}

	providers, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}
	providerFor := func(name string) (llms.Provider, error) {
		if name == "" {
			name = config.DefaultProviderName
		}
		return providers.Provider(name)
	}

	extractionProvider, err := providerFor(cfg.Pipeline.ExtractionProvider)
	if err != nil {
		return nil, err
	}
	relevanceProvider, err := providerFor(cfg.Pipeline.RelevanceProvider)
	if err != nil {
		return nil, err
	}
	plannerProvider, err := providerFor(cfg.Pipeline.PlannerProvider)
	if err != nil {
		return nil, err
	}
	codegenProvider, err := providerFor(cfg.Pipeline.CodegenProvider)
	if err != nil {
		return nil, err
	}

	timeout := oracle.WithTimeout(time.Duration(cfg.Pipeline.OracleTimeout) * time.Second)

	classifier := grounding.NewClassifier(
		oracle.NewRelevance(relevanceProvider, timeout),
		grounding.WithBatchSize(cfg.Pipeline.RelevanceBatchSize),
		grounding.WithConcurrency(cfg.Pipeline.RelevanceConcurrency),
	)

	schemas, err := model.TypeSchemas()
	if err != nil {
		return nil, fmt.Errorf("reflecting type schemas: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	p := pipeline.New(layer,
		oracle.NewExtraction(extractionProvider, timeout),
		grounding.NewGrounder(layer, classifier, nil),
		planning.NewSynthesizer(oracle.NewPlanner(plannerProvider, timeout), nil),
		planning.NewCodeGenerator(oracle.NewCodeGen(codegenProvider, timeout), nil),
		pipeline.WithTypeSchemas(schemas),
		pipeline.WithMetrics(pipeline.NewMetrics(promRegistry)),
	)

	return &runtime{layer: layer, pipeline: p, registry: promRegistry}, nil
}

// buildProviders registers the default llm section and every named entry
// from the providers map.
func buildProviders(cfg *config.Config) (*llms.ProviderRegistry, error) {
	providers := llms.NewProviderRegistry()
	if err := providers.RegisterProvider(config.DefaultProviderName, llms.NewOpenAIProvider(&cfg.LLM)); err != nil {
		return nil, err
	}
	for name := range cfg.Providers {
		providerCfg := cfg.Providers[name]
		if err := providers.RegisterProvider(name, llms.NewOpenAIProvider(&providerCfg)); err != nil {
			return nil, err
		}
	}
	return providers, nil
}
