// Package errors provides structured error handling for the site server.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Content errors
	CodeContentReferenceEmpty     Code = "CONTENT_REFERENCE_EMPTY"
	CodeContentLocaleEmpty        Code = "CONTENT_LOCALE_EMPTY"
	CodeContentKindUnknown        Code = "CONTENT_KIND_UNKNOWN"
	CodeContentNotFound           Code = "CONTENT_NOT_FOUND"
	CodeContentUpstreamFailed     Code = "CONTENT_UPSTREAM_FAILED"
	CodeContentDecodeFailed       Code = "CONTENT_DECODE_FAILED"
	CodeContentDepthExceeded      Code = "CONTENT_DEPTH_EXCEEDED"
	CodeContentSourceUnconfigured Code = "CONTENT_SOURCE_UNCONFIGURED"

	// Page errors
	CodePagePathEmpty     Code = "PAGE_PATH_EMPTY"
	CodePageNotFound      Code = "PAGE_NOT_FOUND"
	CodePageBlockUnknown  Code = "PAGE_BLOCK_UNKNOWN"
	CodeSitemapUnresolved Code = "SITEMAP_UNRESOLVED"

	// Post errors
	CodePostSlugEmpty Code = "POST_SLUG_EMPTY"
	CodePostNotFound  Code = "POST_NOT_FOUND"

	// Preview errors
	CodePreviewTokenMissing Code = "PREVIEW_TOKEN_MISSING"
	CodePreviewTokenInvalid Code = "PREVIEW_TOKEN_INVALID"
	CodePreviewTokenExpired Code = "PREVIEW_TOKEN_EXPIRED"
	CodePreviewKeyMissing   Code = "PREVIEW_KEY_MISSING"

	// Collect errors
	CodeCollectPayloadInvalid   Code = "COLLECT_PAYLOAD_INVALID"
	CodeCollectBatchTooLarge    Code = "COLLECT_BATCH_TOO_LARGE"
	CodeCollectSessionEmpty     Code = "COLLECT_SESSION_EMPTY"
	CodeCollectPageEmpty        Code = "COLLECT_PAGE_EMPTY"
	CodeCollectMilestoneUnknown Code = "COLLECT_MILESTONE_UNKNOWN"

	// Analytics errors
	CodeAnalyticsEventNameEmpty  Code = "ANALYTICS_EVENT_NAME_EMPTY"
	CodeAnalyticsQueueFull       Code = "ANALYTICS_QUEUE_FULL"
	CodeAnalyticsDeliveryFailed  Code = "ANALYTICS_DELIVERY_FAILED"
	CodeAnalyticsKeyUnconfigured Code = "ANALYTICS_KEY_UNCONFIGURED"

	// Feature flag errors
	CodeFlagKeyEmpty       Code = "FLAG_KEY_EMPTY"
	CodeFlagUpstreamFailed Code = "FLAG_UPSTREAM_FAILED"
	CodeFlagDecodeFailed   Code = "FLAG_DECODE_FAILED"

	// Experiment errors
	CodeExperimentKeyEmpty       Code = "EXPERIMENT_KEY_EMPTY"
	CodeExperimentVariantUnknown Code = "EXPERIMENT_VARIANT_UNKNOWN"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeContentReferenceEmpty,
		CodeContentLocaleEmpty,
		CodeContentKindUnknown,
		CodeContentDepthExceeded,
		CodePagePathEmpty,
		CodePostSlugEmpty,
		CodeCollectPayloadInvalid,
		CodeCollectSessionEmpty,
		CodeCollectPageEmpty,
		CodeCollectMilestoneUnknown,
		CodeAnalyticsEventNameEmpty,
		CodeFlagKeyEmpty,
		CodeExperimentKeyEmpty,
		CodeExperimentVariantUnknown:
		return http.StatusBadRequest

	// Unauthorized - preview access without a valid grant
	case CodePreviewTokenMissing,
		CodePreviewTokenInvalid,
		CodePreviewTokenExpired:
		return http.StatusUnauthorized

	// Payload too large - collect beacon over the batch limit
	case CodeCollectBatchTooLarge:
		return http.StatusRequestEntityTooLarge

	// Not found - resource doesn't exist
	case CodeNotFound,
		CodeContentNotFound,
		CodePageNotFound,
		CodePageBlockUnknown,
		CodePostNotFound:
		return http.StatusNotFound

	// Bad gateway - upstream content or flag API failed
	case CodeContentUpstreamFailed,
		CodeContentDecodeFailed,
		CodeFlagUpstreamFailed,
		CodeFlagDecodeFailed:
		return http.StatusBadGateway

	// Service unavailable - local prerequisites missing
	case CodeContentSourceUnconfigured,
		CodePreviewKeyMissing,
		CodeStorageUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
