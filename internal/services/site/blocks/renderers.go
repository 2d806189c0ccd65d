package blocks

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

type heroFields struct {
	Eyebrow  string `json:"eyebrow"`
	Heading  string `json:"heading"`
	Subtext  string `json:"subtext"`
	CTALabel string `json:"ctaLabel"`
	CTAURL   string `json:"ctaUrl"`
	ImageURL string `json:"imageUrl"`
}

func heroComponent(fields heroFields) templ.Component {
	return templates.Hero(templates.HeroProps{
		Eyebrow:  fields.Eyebrow,
		Heading:  fields.Heading,
		Subtext:  fields.Subtext,
		CTALabel: fields.CTALabel,
		CTAURL:   fields.CTAURL,
		ImageURL: fields.ImageURL,
	})
}

// Hero renders the standard hero block.
type Hero struct{}

func (Hero) Type() string { return "hero" }

func (Hero) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields heroFields
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	return heroComponent(fields), nil
}

// LogoStrip renders the customer logo strip block.
type LogoStrip struct{}

func (LogoStrip) Type() string { return "logostrip" }

func (LogoStrip) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading string `json:"heading"`
		Logos   []struct {
			Name     string `json:"name"`
			ImageURL string `json:"imageUrl"`
		} `json:"logos"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	logos := make([]templates.Logo, 0, len(fields.Logos))
	for _, logo := range fields.Logos {
		logos = append(logos, templates.Logo{Name: logo.Name, ImageURL: logo.ImageURL})
	}
	return templates.LogoStrip(templates.LogoStripProps{Heading: fields.Heading, Logos: logos}), nil
}

// RichText renders sanitized rich-text content.
type RichText struct{}

func (RichText) Type() string { return "richtext" }

func (RichText) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		HTML string `json:"html"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	return templates.RichText(content.SanitizeRichText(fields.HTML)), nil
}

// Testimonials renders the customer quote block.
type Testimonials struct{}

func (Testimonials) Type() string { return "testimonials" }

func (Testimonials) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading string `json:"heading"`
		Items   []struct {
			Quote   string `json:"quote"`
			Author  string `json:"author"`
			Role    string `json:"role"`
			Company string `json:"company"`
		} `json:"items"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	items := make([]templates.Testimonial, 0, len(fields.Items))
	for _, entry := range fields.Items {
		items = append(items, templates.Testimonial{
			Quote:   entry.Quote,
			Author:  entry.Author,
			Role:    entry.Role,
			Company: entry.Company,
		})
	}
	return templates.Testimonials(templates.TestimonialsProps{Heading: fields.Heading, Items: items}), nil
}

// Pricing renders the plan comparison block.
type Pricing struct{}

func (Pricing) Type() string { return "pricing" }

func (Pricing) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading string `json:"heading"`
		Subtext string `json:"subtext"`
		Tiers   []struct {
			Name        string   `json:"name"`
			Price       string   `json:"price"`
			Period      string   `json:"period"`
			Description string   `json:"description"`
			Features    []string `json:"features"`
			CTALabel    string   `json:"ctaLabel"`
			CTAURL      string   `json:"ctaUrl"`
			Highlight   bool     `json:"highlight"`
		} `json:"tiers"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	tiers := make([]templates.PricingTier, 0, len(fields.Tiers))
	for _, tier := range fields.Tiers {
		tiers = append(tiers, templates.PricingTier{
			Name:        tier.Name,
			Price:       tier.Price,
			Period:      tier.Period,
			Description: tier.Description,
			Features:    tier.Features,
			CTALabel:    tier.CTALabel,
			CTAURL:      tier.CTAURL,
			Highlight:   tier.Highlight,
		})
	}
	return templates.Pricing(templates.PricingProps{
		Heading: fields.Heading,
		Subtext: fields.Subtext,
		Tiers:   tiers,
	}), nil
}

// FAQ renders the question list block.
type FAQ struct{}

func (FAQ) Type() string { return "faq" }

func (FAQ) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading string `json:"heading"`
		Items   []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"items"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	items := make([]templates.FAQItem, 0, len(fields.Items))
	for _, entry := range fields.Items {
		items = append(items, templates.FAQItem{Question: entry.Question, Answer: entry.Answer})
	}
	return templates.FAQ(templates.FAQProps{Heading: fields.Heading, Items: items}), nil
}

// CTA renders the call-to-action banner block.
type CTA struct{}

func (CTA) Type() string { return "cta" }

func (CTA) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading     string `json:"heading"`
		Subtext     string `json:"subtext"`
		ButtonLabel string `json:"buttonLabel"`
		ButtonURL   string `json:"buttonUrl"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	return templates.CTA(templates.CTAProps{
		Heading:     fields.Heading,
		Subtext:     fields.Subtext,
		ButtonLabel: fields.ButtonLabel,
		ButtonURL:   fields.ButtonURL,
	}), nil
}

// CustomerStories renders the case study block.
type CustomerStories struct{}

func (CustomerStories) Type() string { return "customerstories" }

func (CustomerStories) Render(ctx context.Context, rc RenderContext, item content.Item) (templ.Component, error) {
	var fields struct {
		Heading string `json:"heading"`
		Stories []struct {
			Company     string `json:"company"`
			Summary     string `json:"summary"`
			Metric      string `json:"metric"`
			MetricLabel string `json:"metricLabel"`
			URL         string `json:"url"`
		} `json:"stories"`
	}
	if err := content.DecodeFields(item, &fields); err != nil {
		return nil, err
	}
	stories := make([]templates.CustomerStory, 0, len(fields.Stories))
	for _, story := range fields.Stories {
		stories = append(stories, templates.CustomerStory{
			Company:     story.Company,
			Summary:     story.Summary,
			Metric:      story.Metric,
			MetricLabel: story.MetricLabel,
			URL:         story.URL,
		})
	}
	return templates.CustomerStories(templates.CustomerStoriesProps{
		Heading: fields.Heading,
		Stories: stories,
	}), nil
}
