package swagger

import (
	"maps"
	"slices"
)

// Documents are handed to filters and callers as mutable values, so every
// map, slice and pointer taken from the configuration or from an action is
// copied into the document being built.

func cloneInfo(info Info) Info {
	if info.Contact != nil {
		c := *info.Contact
		info.Contact = &c
	}
	if info.License != nil {
		l := *info.License
		info.License = &l
	}
	return info
}

func cloneSecurity(reqs []SecurityRequirement) []SecurityRequirement {
	if reqs == nil {
		return nil
	}
	out := make([]SecurityRequirement, len(reqs))
	for i, req := range reqs {
		if req == nil {
			continue
		}
		out[i] = make(SecurityRequirement, len(req))
		for name, scopes := range req {
			out[i][name] = slices.Clone(scopes)
		}
	}
	return out
}

func cloneSecurityDefinitions(defs map[string]*SecurityScheme) map[string]*SecurityScheme {
	if defs == nil {
		return nil
	}
	out := make(map[string]*SecurityScheme, len(defs))
	for name, scheme := range defs {
		if scheme == nil {
			out[name] = nil
			continue
		}
		s := *scheme
		s.Scopes = maps.Clone(scheme.Scopes)
		out[name] = &s
	}
	return out
}

// CloneHeaders copies a response header map and the headers in it.
func CloneHeaders(headers map[string]*Header) map[string]*Header {
	if headers == nil {
		return nil
	}
	out := make(map[string]*Header, len(headers))
	for name, h := range headers {
		if h == nil {
			out[name] = nil
			continue
		}
		c := *h
		c.Items = cloneItems(h.Items)
		out[name] = &c
	}
	return out
}

func cloneItems(items *Items) *Items {
	if items == nil {
		return nil
	}
	c := *items
	c.Enum = slices.Clone(items.Enum)
	c.Items = cloneItems(items.Items)
	return &c
}
