package blocks

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
)

// controlVariant is the fallback arm when no experiment variant applies.
const controlVariant = "control"

type experimentHeroFields struct {
	heroFields
	FlagKey     string `json:"flagKey"`
	VariantsRef string `json:"variantsRef"`
}

// ExperimentHero renders a hero whose content is selected by a feature
// flag. The item's own fields are the control arm; variant arms live in the
// content list named by variantsRef.
type ExperimentHero struct{}

func (ExperimentHero) Type() string { return "experimenthero" }

func (ExperimentHero) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields experimentHeroFields
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}

	chosen := fields.heroFields
	effective := controlVariant

	if rc.Experiments != nil && fields.FlagKey != "" {
		variant := rc.Experiments.ChooseVariant(ctx, fields.FlagKey, rc.Visitor.ID)
		if variant != controlVariant && fields.VariantsRef != "" {
			if variantItem, ok := rc.Experiments.VariantContent(ctx, rc.Locale, fields.VariantsRef, variant); ok {
				var variantFields heroFields
				if err := content.DecodeFields(variantItem, &variantFields); err == nil {
					chosen = variantFields
					effective = variant
				}
			}
		}
		rc.Experiments.RecordExposure(ctx, rc.Visitor.ID, fields.FlagKey, effective, map[string]any{
			"page_path": rc.Path,
		})
	}

	return heroComponent(chosen), nil
}
