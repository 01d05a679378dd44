package starprogs

import (
	"fmt"

	"go.starlark.net/starlark"
)

// FromStarlark converts a starlark value to its plain Go counterpart.
func FromStarlark(value starlark.Value) any {
	switch value := value.(type) {

	case starlark.NoneType:
		return nil

	case starlark.Bool:
		return bool(value)

	case starlark.Int:
		if i, ok := value.Int64(); ok {
			return int(i)
		}
		return value.String()

	case starlark.Float:
		return float64(value)

	case starlark.String:
		return string(value)

	case starlark.Bytes:
		return []byte(value)

	case *starlark.List:
		elems := make([]any, value.Len())
		for i := range elems {
			elems[i] = FromStarlark(value.Index(i))
		}
		return elems

	case starlark.Tuple:
		elems := make([]any, 0, len(value))
		for _, elem := range value {
			elems = append(elems, FromStarlark(elem))
		}
		return elems

	case *starlark.Dict:
		m := make(map[any]any, value.Len())
		for _, item := range value.Items() {
			m[FromStarlark(item[0])] = FromStarlark(item[1])
		}
		return m

	}

	return fmt.Sprintf("%v", value)
}
