package svcerr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmgilman/go/svcerr/config"
	"github.com/jmgilman/go/svcerr/i18n"
	"github.com/jmgilman/go/svcerr/telemetry"
)

// HelpIcon is the icon reference attached to help links.
const HelpIcon = "guided-help"

// HelpLaunchCommand identifies the host command that opens guided help.
const HelpLaunchCommand = "svcerr.guidedHelp.launch"

// Help node identifiers in the guided help tree.
const (
	nodeCertificate                   = 63068
	nodeCertificateSelfSigned         = 63069
	nodeServicesUnavailable           = 48366
	nodeGatewayTimeout                = 45995
	nodeCatalogServiceNotActive       = 57266
	nodeDestinationUnavailable        = 48363
	nodeDestinationNotFound           = 48365
	nodeDestinationMisconfigured      = 48364
	nodeDestinationServiceUnavailable = 48367
	nodeDestinationConnectionError    = 48368
	nodeNoV4Services                  = 57267
	nodeNoAbapEnvironments            = 52881
)

type helpNode struct {
	path []int

	// cloudOnly nodes are only offered on config.PlatformCloudIDE.
	cloudOnly bool
}

var helpNodes = map[ErrorKind]helpNode{
	KindCert:                          {path: []int{nodeCertificate}},
	KindCertExpired:                   {path: []int{nodeCertificate}},
	KindCertUnknownOrInvalid:          {path: []int{nodeCertificate}},
	KindCertSelfSigned:                {path: []int{nodeCertificate, nodeCertificateSelfSigned}},
	KindCertSelfSignedInChain:         {path: []int{nodeCertificate, nodeCertificateSelfSigned}},
	KindServicesUnavailable:           {path: []int{nodeServicesUnavailable}, cloudOnly: true},
	KindGatewayTimeout:                {path: []int{nodeGatewayTimeout}, cloudOnly: true},
	KindCatalogServiceNotActive:       {path: []int{nodeCatalogServiceNotActive}},
	KindDestinationUnavailable:        {path: []int{nodeDestinationUnavailable}},
	KindDestinationNotFound:           {path: []int{nodeDestinationNotFound}},
	KindDestinationMisconfigured:      {path: []int{nodeDestinationMisconfigured}},
	KindDestinationServiceUnavailable: {path: []int{nodeDestinationServiceUnavailable}},
	KindDestinationConnectionError:    {path: []int{nodeDestinationConnectionError}},
	KindNoV4Services:                  {path: []int{nodeNoV4Services}},
	KindNoAbapEnvironments:            {path: []int{nodeNoAbapEnvironments}},
}

// HelpNodes returns the help node path for kind under cfg.
func HelpNodes(kind ErrorKind, cfg config.Config) ([]int, bool) {
	node, ok := helpNodes[kind]
	if !ok || (node.cloudOnly && !cfg.IsCloudIDE()) {
		return nil, false
	}
	out := make([]int, len(node.path))
	copy(out, node.path)
	return out, true
}

// HelpLink points the user at guided help for an error.
type HelpLink struct {
	Message  string       `json:"message"`
	LinkText string       `json:"linkText"`
	URL      string       `json:"url"`
	Icon     string       `json:"icon"`
	Command  *HelpCommand `json:"command,omitempty"`
}

// HelpCommand lets the host UI launch the interactive help flow.
type HelpCommand struct {
	ID      string `json:"id"`
	TreeID  int    `json:"treeId"`
	NodeIDs []int  `json:"nodeIdPath"`
	Trigger string `json:"trigger"`
}

// HelpResult is either a help link or, when no help exists for the error,
// the plain message.
type HelpResult struct {
	Link *HelpLink
	Text string
}

// IsLink reports whether the result carries a help link.
func (r HelpResult) IsLink() bool {
	return r.Link != nil
}

// String returns the message of the result.
func (r HelpResult) String() string {
	if r.Link != nil {
		return r.Link.Message
	}
	return r.Text
}

// ResolveHelp builds the help for kind. message defaults to the kind's
// message when empty. Kinds without a help node resolve to the plain message;
// otherwise a HelpLink is built and one EventHelpLinkCreated is emitted.
//
// Example:
//
//	help := svcerr.ResolveHelp(svcerr.KindCertExpired, "", cfg, tr, telemetry.Noop{})
//	if help.IsLink() {
//	    fmt.Println(help.Link.URL)
//	}
func ResolveHelp(kind ErrorKind, message string, cfg config.Config, tr i18n.Translator, sink telemetry.Sink) HelpResult {
	if message == "" {
		message = Message(tr, kind, nil)
	}

	path, ok := HelpNodes(kind, cfg)
	if !ok {
		return HelpResult{Text: message}
	}

	link := &HelpLink{
		Message:  message,
		LinkText: tr.Translate("guidedHelp.needHelp", nil),
		URL:      helpURL(cfg.GuidedHelp, path),
		Icon:     HelpIcon,
	}
	if cfg.GuidedHelp.Enabled {
		link.Command = &HelpCommand{
			ID:      HelpLaunchCommand,
			TreeID:  cfg.GuidedHelp.TreeID,
			NodeIDs: path,
			Trigger: cfg.GuidedHelp.Trigger,
		}
	}

	telemetry.SafeEmit(sink, telemetry.EventHelpLinkCreated, telemetry.Properties{
		"kind":                string(kind),
		"guided_help_enabled": cfg.GuidedHelp.Enabled,
		"node_ids":            joinNodes(path),
		"platform":            string(cfg.Platform),
	})
	return HelpResult{Link: link}
}

func helpURL(gh config.GuidedHelp, path []int) string {
	return fmt.Sprintf("%s/tree/%d/actions/%s/?version=current",
		strings.TrimSuffix(gh.BaseURL, "/"), gh.TreeID, joinNodes(path))
}

func joinNodes(path []int) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ":")
}
