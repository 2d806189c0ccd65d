package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// HeroProps configures the hero section.
type HeroProps struct {
	Eyebrow  string
	Heading  string
	Subtext  string
	CTALabel string
	CTAURL   string
	ImageURL string
}

// Hero renders the lead section of a landing page.
func Hero(props HeroProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="hero">`); err != nil {
			return err
		}
		if eyebrow := strings.TrimSpace(props.Eyebrow); eyebrow != "" {
			if _, err := fmt.Fprintf(w, `<p class="eyebrow">%s</p>`, text(eyebrow)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, text(props.Heading)); err != nil {
			return err
		}
		if subtext := strings.TrimSpace(props.Subtext); subtext != "" {
			if _, err := fmt.Fprintf(w, `<p class="subtext">%s</p>`, text(subtext)); err != nil {
				return err
			}
		}
		if props.CTALabel != "" && props.CTAURL != "" {
			if _, err := fmt.Fprintf(w, `<a class="cta" href="%s">%s</a>`, href(props.CTAURL), text(props.CTALabel)); err != nil {
				return err
			}
		}
		if image := strings.TrimSpace(props.ImageURL); image != "" {
			if _, err := fmt.Fprintf(w, `<img src="%s" alt="">`, href(image)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// Logo is one customer logo in a logo strip.
type Logo struct {
	Name     string
	ImageURL string
}

// LogoStripProps configures the logo strip section.
type LogoStripProps struct {
	Heading string
	Logos   []Logo
}

// LogoStrip renders a row of customer logos.
func LogoStrip(props LogoStripProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="logo-strip">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<ul>`); err != nil {
			return err
		}
		for _, logo := range props.Logos {
			if _, err := fmt.Fprintf(w, `<li><img src="%s" alt="%s"></li>`, href(logo.ImageURL), attr(logo.Name)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

// RichText renders sanitized HTML inside a prose container. The HTML must
// already have passed through the rich-text sanitizer.
func RichText(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="prose">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// Testimonial is one customer quote.
type Testimonial struct {
	Quote   string
	Author  string
	Role    string
	Company string
}

// TestimonialsProps configures the testimonials section.
type TestimonialsProps struct {
	Heading string
	Items   []Testimonial
}

// Testimonials renders a list of customer quotes.
func Testimonials(props TestimonialsProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="testimonials">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		for _, item := range props.Items {
			if _, err := fmt.Fprintf(w, `<figure><blockquote>%s</blockquote><figcaption>%s`, text(item.Quote), text(item.Author)); err != nil {
				return err
			}
			attribution := strings.TrimSpace(strings.Join(nonEmpty(item.Role, item.Company), ", "))
			if attribution != "" {
				if _, err := fmt.Fprintf(w, `<span class="attribution">%s</span>`, text(attribution)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</figcaption></figure>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// PricingTier is one plan on the pricing grid.
type PricingTier struct {
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
	CTALabel    string
	CTAURL      string
	Highlight   bool
}

// PricingProps configures the pricing section.
type PricingProps struct {
	Heading string
	Subtext string
	Tiers   []PricingTier
}

// Pricing renders the plan comparison grid.
func Pricing(props PricingProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="pricing">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		if subtext := strings.TrimSpace(props.Subtext); subtext != "" {
			if _, err := fmt.Fprintf(w, `<p class="subtext">%s</p>`, text(subtext)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<div class="tiers">`); err != nil {
			return err
		}
		for _, tier := range props.Tiers {
			class := "tier"
			if tier.Highlight {
				class = "tier highlight"
			}
			if _, err := fmt.Fprintf(w, `<article class="%s"><h3>%s</h3><p class="price">%s`, attr(class), text(tier.Name), text(tier.Price)); err != nil {
				return err
			}
			if period := strings.TrimSpace(tier.Period); period != "" {
				if _, err := fmt.Fprintf(w, `<span class="period">/%s</span>`, text(period)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</p>`); err != nil {
				return err
			}
			if desc := strings.TrimSpace(tier.Description); desc != "" {
				if _, err := fmt.Fprintf(w, `<p>%s</p>`, text(desc)); err != nil {
					return err
				}
			}
			if len(tier.Features) > 0 {
				if _, err := io.WriteString(w, `<ul>`); err != nil {
					return err
				}
				for _, feature := range tier.Features {
					if _, err := fmt.Fprintf(w, `<li>%s</li>`, text(feature)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</ul>`); err != nil {
					return err
				}
			}
			if tier.CTALabel != "" && tier.CTAURL != "" {
				if _, err := fmt.Fprintf(w, `<a class="cta" href="%s">%s</a>`, href(tier.CTAURL), text(tier.CTALabel)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</article>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// FAQItem is one question and its answer.
type FAQItem struct {
	Question string
	Answer   string
}

// FAQProps configures the FAQ section.
type FAQProps struct {
	Heading string
	Items   []FAQItem
}

// FAQ renders questions as disclosure widgets.
func FAQ(props FAQProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="faq">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		for _, item := range props.Items {
			if _, err := fmt.Fprintf(w, `<details><summary>%s</summary><p>%s</p></details>`, text(item.Question), text(item.Answer)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// CTAProps configures a call-to-action banner.
type CTAProps struct {
	Heading     string
	Subtext     string
	ButtonLabel string
	ButtonURL   string
}

// CTA renders a full-width call-to-action banner.
func CTA(props CTAProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="cta-banner"><h2>%s</h2>`, text(props.Heading)); err != nil {
			return err
		}
		if subtext := strings.TrimSpace(props.Subtext); subtext != "" {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, text(subtext)); err != nil {
				return err
			}
		}
		if props.ButtonLabel != "" && props.ButtonURL != "" {
			if _, err := fmt.Fprintf(w, `<a class="cta" href="%s">%s</a>`, href(props.ButtonURL), text(props.ButtonLabel)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// CustomerStory is one case study card.
type CustomerStory struct {
	Company     string
	Summary     string
	Metric      string
	MetricLabel string
	URL         string
}

// CustomerStoriesProps configures the case study section.
type CustomerStoriesProps struct {
	Heading string
	Stories []CustomerStory
}

// CustomerStories renders case study cards.
func CustomerStories(props CustomerStoriesProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="customer-stories">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<div class="stories">`); err != nil {
			return err
		}
		for _, story := range props.Stories {
			if _, err := fmt.Fprintf(w, `<article><h3>%s</h3>`, text(story.Company)); err != nil {
				return err
			}
			if story.Metric != "" {
				if _, err := fmt.Fprintf(w, `<p class="metric">%s<span>%s</span></p>`, text(story.Metric), text(story.MetricLabel)); err != nil {
					return err
				}
			}
			if summary := strings.TrimSpace(story.Summary); summary != "" {
				if _, err := fmt.Fprintf(w, `<p>%s</p>`, text(summary)); err != nil {
					return err
				}
			}
			if story.URL != "" {
				if _, err := fmt.Fprintf(w, `<a href="%s">Read the story</a>`, href(story.URL)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</article>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// FeaturedPost is one blog teaser card.
type FeaturedPost struct {
	Title     string
	URL       string
	Excerpt   string
	Published string
}

// FeaturedPostsProps configures the featured posts section.
type FeaturedPostsProps struct {
	Heading string
	Posts   []FeaturedPost
}

// FeaturedPosts renders blog teaser cards on a landing page.
func FeaturedPosts(props FeaturedPostsProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="featured-posts">`); err != nil {
			return err
		}
		if heading := strings.TrimSpace(props.Heading); heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, text(heading)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<div class="cards">`); err != nil {
			return err
		}
		for _, post := range props.Posts {
			if _, err := fmt.Fprintf(w, `<article><h3><a href="%s">%s</a></h3>`, href(post.URL), text(post.Title)); err != nil {
				return err
			}
			if post.Published != "" {
				if _, err := fmt.Fprintf(w, `<time>%s</time>`, text(post.Published)); err != nil {
					return err
				}
			}
			if excerpt := strings.TrimSpace(post.Excerpt); excerpt != "" {
				if _, err := fmt.Fprintf(w, `<p>%s</p>`, text(excerpt)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</article>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// SegmentBannerProps configures the personalized audience banner.
type SegmentBannerProps struct {
	Headline string
	Message  string
}

// SegmentBanner renders the audience-specific message above page content.
func SegmentBanner(props SegmentBannerProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<aside class="segment-banner"><strong>%s</strong>`, text(props.Headline)); err != nil {
			return err
		}
		if message := strings.TrimSpace(props.Message); message != "" {
			if _, err := fmt.Fprintf(w, ` <span>%s</span>`, text(message)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</aside>`)
		return err
	})
}

// Sections concatenates rendered page sections in order.
func Sections(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, component := range components {
			if component == nil {
				continue
			}
			if err := component.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func nonEmpty(values ...string) []string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			kept = append(kept, value)
		}
	}
	return kept
}
