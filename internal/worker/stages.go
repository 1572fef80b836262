package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cratescan/api/internal/client"
	"github.com/cratescan/api/internal/model"
)

// RetryPolicy bounds repeated generation attempts for a flaky stage.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// GenerateFunc produces a stage's artifacts from the source photo
type GenerateFunc func(ctx context.Context, art client.ArtGenerator, input model.BatchInput) ([]model.Artifact, error)

// RegisterFunc turns a stage's artifacts into registered products
type RegisterFunc func(ctx context.Context, products client.ProductRegistrar, artifacts []model.Artifact, input model.BatchInput) ([]string, error)

// StageDef describes one ordered step of the merch pipeline. Units is the
// stage's contribution to the batch progress counter; a fan-out stage counts
// one unit per expected variant.
type StageDef struct {
	Name        string
	Units       int
	Description string
	Retry       *RetryPolicy
	Generate    GenerateFunc
	Register    RegisterFunc
}

// Pipeline is the fixed, ordered stage list for one batch shape.
type Pipeline struct {
	Stages []StageDef
}

// TotalUnits is the sum of all stage units. Fixed per pipeline definition.
func (p Pipeline) TotalUnits() int {
	total := 0
	for _, s := range p.Stages {
		total += s.Units
	}
	return total
}

// The seven artistic styles the variants stage renders the sleeve photo in.
var sleeveStyles = []string{
	"vaporwave",
	"risograph",
	"halftone",
	"blueprint",
	"watercolor",
	"linocut",
	"neon_noir",
}

// DefaultPipeline is the production merch pipeline: seven style variants
// plus four single-design products, 11 units total. The poster stage goes
// through ArtStudio's upscaling path, which is flaky enough to warrant
// bounded retries.
func DefaultPipeline() Pipeline {
	return Pipeline{Stages: []StageDef{
		stylesStage(),
		designStage("tshirt", model.ProductKindTShirt, "Generating t-shirt design...", "T-Shirt", false, nil),
		designStage("poster", model.ProductKindPoster, "Generating poster render...", "Poster", true,
			&RetryPolicy{MaxAttempts: 3, Backoff: 5 * time.Second}),
		designStage("mug", model.ProductKindMug, "Generating mug wrap...", "Mug", false, nil),
		designStage("case", model.ProductKindPhoneCase, "Generating phone case design...", "Phone Case", false, nil),
	}}
}

func stylesStage() StageDef {
	return StageDef{
		Name:        "styles",
		Units:       len(sleeveStyles),
		Description: fmt.Sprintf("Generating %d style variants...", len(sleeveStyles)),
		Generate: func(ctx context.Context, art client.ArtGenerator, input model.BatchInput) ([]model.Artifact, error) {
			resp, err := art.GenerateStyles(ctx, &client.GenerateStylesRequest{
				SourceURL: input.SourceImageURL,
				Styles:    sleeveStyles,
			})
			if err != nil {
				return nil, err
			}
			return toArtifacts(resp.Artifacts), nil
		},
		Register: func(ctx context.Context, products client.ProductRegistrar, artifacts []model.Artifact, input model.BatchInput) ([]string, error) {
			resp, err := products.CreateProduct(ctx, &client.CreateProductRequest{
				Kind:        string(model.ProductKindArtPrint),
				Title:       merchTitle(input, "Art Print Collection"),
				Description: input.Description,
				ImageURLs:   artifactURLs(artifacts),
			})
			if err != nil {
				return nil, err
			}
			return resp.ProductIDs, nil
		},
	}
}

func designStage(name string, kind model.ProductKind, description, titleSuffix string, upscale bool, retry *RetryPolicy) StageDef {
	return StageDef{
		Name:        name,
		Units:       1,
		Description: description,
		Retry:       retry,
		Generate: func(ctx context.Context, art client.ArtGenerator, input model.BatchInput) ([]model.Artifact, error) {
			resp, err := art.GenerateDesign(ctx, &client.GenerateDesignRequest{
				SourceURL: input.SourceImageURL,
				Kind:      string(kind),
				Upscale:   upscale,
			})
			if err != nil {
				return nil, err
			}
			if resp.Artifact == nil {
				return nil, nil
			}
			return toArtifacts([]client.ArtifactPayload{*resp.Artifact}), nil
		},
		Register: func(ctx context.Context, products client.ProductRegistrar, artifacts []model.Artifact, input model.BatchInput) ([]string, error) {
			resp, err := products.CreateProduct(ctx, &client.CreateProductRequest{
				Kind:        string(kind),
				Title:       merchTitle(input, titleSuffix),
				Description: input.Description,
				ImageURLs:   artifactURLs(artifacts),
			})
			if err != nil {
				return nil, err
			}
			return resp.ProductIDs, nil
		},
	}
}

func merchTitle(input model.BatchInput, suffix string) string {
	base := strings.TrimSpace(strings.TrimSpace(input.Artist) + " " + strings.TrimSpace(input.Title))
	if base == "" {
		base = "Scanned Sleeve"
	}
	return base + " " + suffix
}

func toArtifacts(payloads []client.ArtifactPayload) []model.Artifact {
	artifacts := make([]model.Artifact, 0, len(payloads))
	for _, p := range payloads {
		artifacts = append(artifacts, model.Artifact{
			ID:    p.ID,
			URL:   p.URL,
			Style: p.Style,
		})
	}
	return artifacts
}

func artifactURLs(artifacts []model.Artifact) []string {
	urls := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		urls = append(urls, a.URL)
	}
	return urls
}
