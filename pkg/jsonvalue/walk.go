package jsonvalue

// MemberFunc inspects an object member. When replaced is true the member
// value becomes out and the walk does not descend into it; otherwise the
// walk continues into the original value.
type MemberFunc func(key string, in Value) (out Value, replaced bool, err error)

// RewriteMembers returns a copy of v in which fn has been applied to every
// object member at any depth, arrays included. The first error stops the
// walk. v itself is left untouched.
func (v Value) RewriteMembers(fn MemberFunc) (Value, error) {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			out, err := item.RewriteMembers(fn)
			if err != nil {
				return Null(), err
			}
			items[i] = out
		}
		return Value{kind: KindArray, items: items}, nil

	case KindObject:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			out, replaced, err := fn(m.Key, m.Value)
			if err != nil {
				return Null(), err
			}
			if !replaced {
				out, err = m.Value.RewriteMembers(fn)
				if err != nil {
					return Null(), err
				}
			}
			members[i] = Member{Key: m.Key, Value: out}
		}
		return Value{kind: KindObject, members: members}, nil

	default:
		return v, nil
	}
}
