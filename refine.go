package svcerr

import (
	"github.com/jmgilman/go/svcerr/config"
	"github.com/jmgilman/go/svcerr/i18n"
	"github.com/jmgilman/go/svcerr/telemetry"
)

// NoAuthentication is the destination authentication mode for anonymous access.
const NoAuthentication = "NoAuthentication"

// dynamicDiscoveryProperty names the destination setting required for
// service discovery.
const dynamicDiscoveryProperty = "WebIDEAdditionalData=full_url"

// Destination describes the configured remote endpoint a request went through.
type Destination struct {
	Name string

	// SupportsDynamicDiscovery reports whether services can be discovered
	// through the destination.
	SupportsDynamicDiscovery bool

	// OnPremise reports whether the destination reaches an on-premise system.
	OnPremise bool

	// Authentication is the destination's authentication mode, e.g.
	// NoAuthentication or "BasicAuthentication".
	Authentication string
}

// Type returns the destination type reported in telemetry.
func (d Destination) Type() string {
	switch {
	case d.OnPremise:
		return "on-premise"
	case d.SupportsDynamicDiscovery:
		return "internet"
	default:
		return "unknown"
	}
}

// Refinement is the result of narrowing a kind with destination metadata.
type Refinement struct {
	Kind ErrorKind

	// Message replaces the kind's default message when not empty.
	Message string
}

// Refine narrows kind using what is known about the destination the failed
// request went through. Exactly one EventDestinationError is emitted to sink
// per call, whether or not the kind changed.
//
// Example:
//
//	dest := svcerr.Destination{Name: "S4H", SupportsDynamicDiscovery: true}
//	r := svcerr.Refine(svcerr.KindNotFound, dest, cfg, tr, sink)
//	msg := r.Message
//	if msg == "" {
//	    msg = svcerr.Message(tr, r.Kind, nil)
//	}
func Refine(kind ErrorKind, dest Destination, cfg config.Config, tr i18n.Translator, sink telemetry.Sink) Refinement {
	r := refine(kind, dest, tr)
	telemetry.SafeEmit(sink, telemetry.EventDestinationError, telemetry.Properties{
		"kind":             string(r.Kind),
		"destination_type": dest.Type(),
		"platform":         string(cfg.Platform),
	})
	return r
}

func refine(kind ErrorKind, dest Destination, tr i18n.Translator) Refinement {
	switch {
	case !dest.SupportsDynamicDiscovery:
		return Refinement{
			Kind:    KindDestinationMisconfigured,
			Message: tr.Translate("errors.destination.missingProperty", i18n.Params{"property": dynamicDiscoveryProperty}),
		}
	case kind == KindServiceUnavailable:
		if dest.OnPremise {
			return Refinement{Kind: KindDestinationServiceUnavailable}
		}
		return Refinement{Kind: KindDestinationConnectionError}
	case kind == KindNotFound:
		return Refinement{
			Kind:    KindDestinationNotFound,
			Message: tr.Translate("errors.destination.notFound", nil),
		}
	case kind == KindInternalServerError, kind == KindServerHTTPError:
		return Refinement{Kind: KindDestinationConnectionError}
	case kind == KindAuth && dest.Authentication != NoAuthentication:
		return Refinement{
			Kind:    KindAuth,
			Message: tr.Translate("errors.destination.authError", i18n.Params{"authentication": dest.Authentication}),
		}
	default:
		return Refinement{Kind: kind}
	}
}
