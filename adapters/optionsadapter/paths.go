package optionsadapter

import (
	"strings"

	"github.com/goliatone/go-fieldgate/fgerrors"
)

func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, ".") {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// lookupPath tries the whole key first so flat snapshots keep working,
// then walks the nested form.
func lookupPath(snapshot map[string]any, path string) (any, bool) {
	if len(snapshot) == 0 {
		return nil, false
	}
	if value, ok := snapshot[path]; ok {
		return value, true
	}
	return descendPath(snapshot, splitPath(path))
}

func descendPath(node map[string]any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	value, ok := node[segments[0]]
	if !ok {
		return nil, false
	}
	if len(segments) == 1 {
		return value, true
	}
	child, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	return descendPath(child, segments[1:])
}

func setPath(snapshot map[string]any, path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return fgerrors.WrapSentinel(fgerrors.ErrPathRequired, "optionsadapter: path is empty", map[string]any{
			fgerrors.MetaPath: path,
		})
	}
	node := snapshot
	for len(segments) > 1 {
		head := segments[0]
		segments = segments[1:]
		switch child := node[head].(type) {
		case nil:
			next := map[string]any{}
			node[head] = next
			node = next
		case map[string]any:
			node = child
		default:
			return fgerrors.WrapSentinel(fgerrors.ErrPathInvalid, "optionsadapter: path segment is not a map", map[string]any{
				fgerrors.MetaPath: head,
			})
		}
	}
	node[segments[0]] = value
	return nil
}

// deletePath removes a leaf and prunes intermediate maps left empty.
func deletePath(snapshot map[string]any, path string) bool {
	return prunePath(snapshot, splitPath(path))
}

func prunePath(node map[string]any, segments []string) bool {
	if len(node) == 0 || len(segments) == 0 {
		return false
	}
	head := segments[0]
	if len(segments) == 1 {
		if _, ok := node[head]; !ok {
			return false
		}
		delete(node, head)
		return true
	}
	child, ok := node[head].(map[string]any)
	if !ok {
		return false
	}
	if !prunePath(child, segments[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(node, head)
	}
	return true
}

func flattenMap(prefix string, data map[string]any, out map[string]any) {
	for key, value := range data {
		if key == "" {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flattenMap(path, child, out)
			continue
		}
		out[path] = value
	}
}
