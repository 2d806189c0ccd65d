package seed

import "github.com/lumastack/lumastack.com/internal/content"

// Field structs mirror the schemas the block renderers decode. They live
// here rather than importing the renderers so fixture shape changes surface
// as explicit edits in this file.

type heroFields struct {
	Eyebrow  string `json:"eyebrow,omitempty"`
	Heading  string `json:"heading"`
	Subtext  string `json:"subtext,omitempty"`
	CTALabel string `json:"ctaLabel,omitempty"`
	CTAURL   string `json:"ctaUrl,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type experimentHeroFields struct {
	heroFields
	FlagKey     string `json:"flagKey"`
	VariantsRef string `json:"variantsRef"`
}

type heroVariantFields struct {
	Variant string `json:"variant"`
	heroFields
}

type logoFields struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type logoStripFields struct {
	Heading string       `json:"heading,omitempty"`
	Logos   []logoFields `json:"logos"`
}

type richTextFields struct {
	HTML string `json:"html"`
}

type testimonialFields struct {
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
}

type testimonialsFields struct {
	Heading string              `json:"heading,omitempty"`
	Items   []testimonialFields `json:"items"`
}

type tierFields struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	CTALabel    string   `json:"ctaLabel,omitempty"`
	CTAURL      string   `json:"ctaUrl,omitempty"`
	Highlight   bool     `json:"highlight,omitempty"`
}

type pricingFields struct {
	Heading string       `json:"heading,omitempty"`
	Subtext string       `json:"subtext,omitempty"`
	Tiers   []tierFields `json:"tiers"`
}

type faqItemFields struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type faqFields struct {
	Heading string          `json:"heading,omitempty"`
	Items   []faqItemFields `json:"items"`
}

type ctaFields struct {
	Heading     string `json:"heading"`
	Subtext     string `json:"subtext,omitempty"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonURL   string `json:"buttonUrl"`
}

type storyFields struct {
	Company     string `json:"company"`
	Summary     string `json:"summary"`
	Metric      string `json:"metric,omitempty"`
	MetricLabel string `json:"metricLabel,omitempty"`
	URL         string `json:"url,omitempty"`
}

type customerStoriesFields struct {
	Heading string        `json:"heading,omitempty"`
	Stories []storyFields `json:"stories"`
}

type featuredPostsFields struct {
	Heading  string `json:"heading,omitempty"`
	PostsRef string `json:"postsRef,omitempty"`
	Take     int    `json:"take,omitempty"`
}

type postFields struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Author      string `json:"author,omitempty"`
	BodyHTML    string `json:"bodyHtml"`
}

type segmentFields struct {
	Slug     string `json:"slug"`
	Headline string `json:"headline"`
	Message  string `json:"message,omitempty"`
}

func demoSitemap() []content.SitemapNode {
	return []content.SitemapNode{
		{Path: "/", PageID: "home", Title: "Home", Visible: true},
		{Path: "/features", PageID: "features", Title: "Features", Visible: true},
		{Path: "/pricing", PageID: "pricing", Title: "Pricing", Visible: true},
		{Path: "/about", PageID: "about", Title: "About", Visible: true},
		{Path: "/blog", Title: "Blog", Visible: true},
		{Path: "/platform", Redirect: "/features"},
	}
}

func demoPages() []content.Page {
	return []content.Page{
		{
			ID:    "home",
			Title: "Lumastack",
			SEO: content.SEO{
				Title:       "Lumastack — release observability for product teams",
				Description: "See what every release does to real users. Traces, session timelines, and experiments in one place.",
				OGImage:     "https://cdn.lumastack.com/og/home.png",
			},
			Zones: []content.Zone{{
				Name: "main",
				Blocks: []content.BlockRef{
					{Type: "experimenthero", ItemID: "hero-home"},
					{Type: "logostrip", ItemID: "logos-main"},
					{Type: "testimonials", ItemID: "testimonials-main"},
					{Type: "featuredposts", ItemID: "featured-home"},
					{Type: "cta", ItemID: "cta-main"},
				},
			}},
		},
		{
			ID:    "features",
			Title: "Features",
			SEO: content.SEO{
				Title:       "Features — Lumastack",
				Description: "Session timelines, release markers, and experiment analysis built on your existing telemetry.",
			},
			Zones: []content.Zone{{
				Name: "main",
				Blocks: []content.BlockRef{
					{Type: "hero", ItemID: "hero-features"},
					{Type: "richtext", ItemID: "features-body"},
					{Type: "customerstories", ItemID: "stories-main"},
					{Type: "cta", ItemID: "cta-main"},
				},
			}},
		},
		{
			ID:    "pricing",
			Title: "Pricing",
			SEO: content.SEO{
				Title:       "Pricing — Lumastack",
				Description: "Free while you are small, predictable once you are not.",
			},
			Zones: []content.Zone{{
				Name: "main",
				Blocks: []content.BlockRef{
					{Type: "pricing", ItemID: "pricing-tiers"},
					{Type: "faq", ItemID: "faq-pricing"},
					{Type: "cta", ItemID: "cta-main"},
				},
			}},
		},
		{
			ID:    "about",
			Title: "About",
			SEO: content.SEO{
				Title:       "About — Lumastack",
				Description: "Why we built a release observability company.",
			},
			Zones: []content.Zone{{
				Name: "main",
				Blocks: []content.BlockRef{
					{Type: "richtext", ItemID: "about-body"},
					{Type: "logostrip", ItemID: "logos-main"},
				},
			}},
		},
	}
}

func demoItems() []itemSpec {
	return []itemSpec{
		{
			ID:  "hero-home",
			Ref: "experimenthero",
			Fields: experimentHeroFields{
				heroFields: heroFields{
					Eyebrow:  "Lumastack",
					Heading:  "Know what your release did to real users",
					Subtext:  "Session timelines, release markers, and experiment results on top of the telemetry you already collect.",
					CTALabel: "Start free",
					CTAURL:   "/pricing",
				},
				FlagKey:     "homepage-hero",
				VariantsRef: "homepage-hero-variants",
			},
		},
		{
			ID:  "hero-features",
			Ref: "hero",
			Fields: heroFields{
				Eyebrow:  "Platform",
				Heading:  "Every layer of your stack on one timeline",
				Subtext:  "Correlate deploys, traces, and user sessions without stitching four tools together.",
				CTALabel: "See pricing",
				CTAURL:   "/pricing",
				ImageURL: "https://cdn.lumastack.com/img/timeline.png",
			},
		},
		{
			ID:  "logos-main",
			Ref: "logostrip",
			Fields: logoStripFields{
				Heading: "Trusted by teams that ship every day",
				Logos: []logoFields{
					{Name: "Northwind Labs", ImageURL: "https://cdn.lumastack.com/logos/northwind.svg"},
					{Name: "Ferrous Systems", ImageURL: "https://cdn.lumastack.com/logos/ferrous.svg"},
					{Name: "Cobalt Robotics", ImageURL: "https://cdn.lumastack.com/logos/cobalt.svg"},
					{Name: "Meridian Health", ImageURL: "https://cdn.lumastack.com/logos/meridian.svg"},
					{Name: "Paper Crane", ImageURL: "https://cdn.lumastack.com/logos/papercrane.svg"},
				},
			},
		},
		{
			ID:  "testimonials-main",
			Ref: "testimonials",
			Fields: testimonialsFields{
				Heading: "What customers say",
				Items: []testimonialFields{
					{
						Quote:   "We cut our mean time to understanding from an afternoon to about four minutes.",
						Author:  "Dana Okafor",
						Role:    "Engineering Lead",
						Company: "Northwind Labs",
					},
					{
						Quote:   "The first tool where the product manager and the on-call engineer look at the same screen.",
						Author:  "Miguel Santos",
						Role:    "Head of Product",
						Company: "Cobalt Robotics",
					},
					{
						Quote:   "Release markers on session timelines ended our 'works on my machine' arguments for good.",
						Author:  "Ines Keller",
						Role:    "Staff Engineer",
						Company: "Ferrous Systems",
					},
				},
			},
		},
		{
			ID:  "featured-home",
			Ref: "featuredposts",
			Fields: featuredPostsFields{
				Heading:  "From the blog",
				PostsRef: "posts",
				Take:     3,
			},
		},
		{
			ID:  "cta-main",
			Ref: "cta",
			Fields: ctaFields{
				Heading:     "Ready to see your product clearly?",
				Subtext:     "Connect a data source and watch your first session timeline in under ten minutes.",
				ButtonLabel: "Start your free trial",
				ButtonURL:   "/pricing",
			},
		},
		{
			ID:  "features-body",
			Ref: "richtext",
			Fields: richTextFields{
				HTML: "<h2>Session timelines</h2><p>Every user session becomes a single scrollable timeline: page views, API calls, errors, and the release that was live at the time. No more guessing which deploy introduced the regression.</p><h2>Release markers</h2><p>Lumastack tags incoming telemetry with your release version, so charts grow vertical lines where behavior changed. Roll a release back and the marker stays, keeping the record honest.</p><h2>Experiment analysis</h2><p>Wire a feature flag to an experiment and Lumastack splits every metric by variant automatically. Results update as sessions arrive, with guardrail metrics watched from the first minute.</p><ul><li>Works with OpenTelemetry out of the box</li><li>Keeps raw events for ninety days</li><li>Exports to your warehouse nightly</li></ul>",
			},
		},
		{
			ID:  "about-body",
			Ref: "richtext",
			Fields: richTextFields{
				HTML: "<h2>Why Lumastack exists</h2><p>We spent a decade on teams where knowing what a release actually did meant tailing logs in one tab, a metrics dashboard in another, and a replay tool in a third. The data was all there. The story was not.</p><p>Lumastack puts the story first: one timeline per user, one marker per release, one place where engineers and product people argue from the same facts.</p><p>We are a small remote team across four time zones. We ship every weekday, and yes, we watch our own releases on Lumastack.</p>",
			},
		},
		{
			ID:  "stories-main",
			Ref: "customerstories",
			Fields: customerStoriesFields{
				Heading: "Customer stories",
				Stories: []storyFields{
					{
						Company:     "Meridian Health",
						Summary:     "Found a checkout regression affecting one browser version within an hour of release.",
						Metric:      "94%",
						MetricLabel: "drop in time to diagnose",
						URL:         "/blog/debug-with-session-timelines",
					},
					{
						Company:     "Paper Crane",
						Summary:     "Ran their first pricing experiment with guardrails instead of gut feeling.",
						Metric:      "12%",
						MetricLabel: "lift in trial conversions",
						URL:         "/blog/ship-experiments-without-fear",
					},
				},
			},
		},
		{
			ID:  "pricing-tiers",
			Ref: "pricing",
			Fields: pricingFields{
				Heading: "Simple pricing that scales with you",
				Subtext: "Every plan includes unlimited seats. You pay for events, not people.",
				Tiers: []tierFields{
					{
						Name:        "Starter",
						Price:       "$0",
						Period:      "forever",
						Description: "For side projects and early prototypes.",
						Features:    []string{"1M events per month", "7 day retention", "Community support"},
						CTALabel:    "Start free",
						CTAURL:      "/pricing",
					},
					{
						Name:        "Growth",
						Price:       "$49",
						Period:      "per month",
						Description: "For products with real users and real releases.",
						Features:    []string{"25M events per month", "90 day retention", "Experiments and release markers", "Email support"},
						CTALabel:    "Start a trial",
						CTAURL:      "/pricing",
						Highlight:   true,
					},
					{
						Name:        "Enterprise",
						Price:       "Custom",
						Description: "For teams with compliance, scale, or procurement needs.",
						Features:    []string{"Unlimited events", "Custom retention", "SSO and audit logs", "Dedicated support"},
						CTALabel:    "Talk to us",
						CTAURL:      "/about",
					},
				},
			},
		},
		{
			ID:  "faq-pricing",
			Ref: "faq",
			Fields: faqFields{
				Heading: "Frequently asked questions",
				Items: []faqItemFields{
					{
						Question: "What counts as an event?",
						Answer:   "Any single record you send us: a page view, a span, a custom event. Batches count per record, not per request.",
					},
					{
						Question: "Do you sample my data?",
						Answer:   "Never silently. You choose sampling rules per source, and sampled-out volume does not count against your plan.",
					},
					{
						Question: "Can I self-host Lumastack?",
						Answer:   "Not today. Enterprise plans can pin data to a region, and every plan can export raw events nightly.",
					},
					{
						Question: "What happens if I go over my plan?",
						Answer:   "We keep ingesting for the rest of the month and email you. Nothing is dropped without a conversation first.",
					},
				},
			},
		},
	}
}

func demoLists() map[string][]itemSpec {
	return map[string][]itemSpec{
		"posts": {
			{
				ID:  "post-introducing-lumastack",
				Ref: "post",
				Fields: postFields{
					Title:       "Introducing Lumastack",
					Slug:        "introducing-lumastack",
					Excerpt:     "One timeline per user, one marker per release. Here is what we built and why.",
					PublishedAt: "2025-04-08",
					Author:      "Maya Chen",
					BodyHTML:    "<p>Today we are opening Lumastack to everyone. If you have ever shipped a release and then refreshed three dashboards wondering what it did, this is for you.</p><h2>The idea</h2><p>Telemetry tools answer <em>what happened</em>. Product analytics answer <em>what users did</em>. Neither answers the question teams actually ask after a deploy: did this release make things better or worse?</p><p>Lumastack joins both streams on a single timeline and draws a line where every release lands. The answer stops being a correlation exercise and starts being something you can see.</p><h2>What works today</h2><ul><li>Session timelines with release markers</li><li>Experiment analysis wired to your feature flags</li><li>Nightly warehouse export</li></ul><p>Start on the free plan and tell us what breaks. We read everything.</p>",
				},
			},
			{
				ID:  "post-debug-with-session-timelines",
				Ref: "post",
				Fields: postFields{
					Title:       "Debugging with session timelines",
					Slug:        "debug-with-session-timelines",
					Excerpt:     "How Meridian Health traced a checkout bug to one browser version in under an hour.",
					PublishedAt: "2025-05-12",
					Author:      "Priya Natarajan",
					BodyHTML:    "<p>A support ticket says checkout is broken. Your error tracker says everything is fine. Who is lying?</p><p>Usually nobody. The error is real, rare, and invisible in aggregates. Meridian Health hit exactly this after a Tuesday release: conversion dipped two points while every chart stayed green.</p><h2>The timeline view</h2><p>Filtering sessions to the affected cohort showed the same shape again and again: a payment form submit, a client-side validation error, silence. Every one of those sessions ran the same browser version, and every one started after the release marker.</p><p>The fix shipped the same afternoon. The postmortem was one screenshot.</p>",
				},
			},
			{
				ID:  "post-ship-experiments-without-fear",
				Ref: "post",
				Fields: postFields{
					Title:       "Ship experiments without fear",
					Slug:        "ship-experiments-without-fear",
					Excerpt:     "Guardrail metrics watch your experiment so you do not have to.",
					PublishedAt: "2025-05-27",
					Author:      "Maya Chen",
					BodyHTML:    "<p>The scariest moment of any experiment is the first hour, when a bad variant can quietly hurt users while the dashboard still says <em>collecting data</em>.</p><h2>Guardrails from minute one</h2><p>Lumastack watches error rate, latency, and your chosen business metrics per variant from the first session. A guardrail breach pages you before the damage compounds, and a one-click kill switch returns everyone to control.</p><p>Paper Crane used this to run their first pricing test. The scary part turned out to be a twelve percent lift.</p>",
				},
			},
		},
		"homepage-hero-variants": {
			{
				ID:  "hero-home-treatment-a",
				Ref: "experimentvariant",
				Fields: heroVariantFields{
					Variant: "treatment-a",
					heroFields: heroFields{
						Eyebrow:  "Lumastack",
						Heading:  "See every release through your users' eyes",
						Subtext:  "Deploys, traces, and sessions on one timeline. Know in minutes, not meetings.",
						CTALabel: "Try it free",
						CTAURL:   "/pricing",
					},
				},
			},
			{
				ID:  "hero-home-treatment-b",
				Ref: "experimentvariant",
				Fields: heroVariantFields{
					Variant: "treatment-b",
					heroFields: heroFields{
						Eyebrow:  "Lumastack",
						Heading:  "Stop guessing what your deploy just did",
						Subtext:  "Release markers on real user sessions. The postmortem writes itself.",
						CTALabel: "Watch a session",
						CTAURL:   "/features",
					},
				},
			},
		},
		"audiencesegments": {
			{
				ID:  "segment-startups",
				Ref: "audiencesegment",
				Fields: segmentFields{
					Slug:     "startups",
					Headline: "Built for teams of five",
					Message:  "The free plan covers a million events a month. No card, no sales call.",
				},
			},
			{
				ID:  "segment-enterprise",
				Ref: "audiencesegment",
				Fields: segmentFields{
					Slug:     "enterprise",
					Headline: "Compliance without the slowdown",
					Message:  "SSO, audit logs, and regional data pinning on every Enterprise plan.",
				},
			},
			{
				ID:  "segment-developers",
				Ref: "audiencesegment",
				Fields: segmentFields{
					Slug:     "developers",
					Headline: "OpenTelemetry native",
					Message:  "Point your existing OTLP exporter at Lumastack and keep your instrumentation.",
				},
			},
			{
				ID:  "segment-de",
				Ref: "audiencesegment",
				Fields: segmentFields{
					Slug:     "de",
					Headline: "Daten bleiben in der EU",
					Message:  "EU region pinning is available on every plan, including the free tier.",
				},
			},
		},
	}
}
