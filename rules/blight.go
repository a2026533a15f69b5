package rules

// BlightEffect is a once-per-match ability. Invoke starts it; Resume continues any
// sub-resolution it opened with Effect.Await. Resume returns an error wrapping
// ErrIllegalTarget when the supplied input does not fit; the engine then discards every change.
type BlightEffect interface {
	ID() string
	Name() string
	Description() string
	Invoke(x *Effect) string
	Resume(x *Effect, in Input) (string, error)
}

// BlightProvider looks up Blight effects by id. The blight package's Registry implements it;
// the rules package never imports it directly.
type BlightProvider interface {
	Blight(id string) (BlightEffect, bool)
	BlightIDs() []string
}
