package workflow

import "github.com/newsagent/provision/pkg/logger"

var remapLog = logger.New("workflow:remap")

// credentialsKey is the field name under which a workflow node maps an
// integration kind to a credential reference object.
const credentialsKey = "credentials"

// RemapCredentialIDs walks the document tree depth-first and rewrites the
// id of every credential reference whose kind has a canonical id in ids.
// All other fields survive untouched: unknown kinds, non-object references
// and empty credential holders are left alone. Returns the number of ids
// rewritten.
//
// The rewrite is a fixed point: running it again over its own output
// changes nothing, because canonical ids map to themselves.
func RemapCredentialIDs(root any, ids map[string]string) int {
	switch node := root.(type) {
	case map[string]any:
		return remapObject(node, ids)
	case []any:
		count := 0
		for _, item := range node {
			count += RemapCredentialIDs(item, ids)
		}
		return count
	default:
		// Scalars carry no references.
		return 0
	}
}

func remapObject(node map[string]any, ids map[string]string) int {
	count := 0
	for key, value := range node {
		if holder, ok := value.(map[string]any); ok && key == credentialsKey {
			count += remapHolder(holder, ids)
			// Reference objects may carry nested structure of their own.
			for _, ref := range holder {
				count += RemapCredentialIDs(ref, ids)
			}
			continue
		}
		count += RemapCredentialIDs(value, ids)
	}
	return count
}

func remapHolder(holder map[string]any, ids map[string]string) int {
	count := 0
	for kind, ref := range holder {
		canonical, known := ids[kind]
		if !known {
			remapLog.Printf("leaving unrecognized credential kind %q untouched", kind)
			continue
		}
		refObject, ok := ref.(map[string]any)
		if !ok {
			// Null or scalar reference; nothing to rewrite.
			continue
		}
		if refObject["id"] != canonical {
			refObject["id"] = canonical
			count++
		}
	}
	return count
}
