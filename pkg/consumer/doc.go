// Package consumer builds core.Consumer implementations from plain Go
// functions.
//
// Typed is the generic adapter: payloads of type T are encoded with a Codec
// (JSON by default) and handed to a typed process function.
//
//	c := consumer.New("geocode", func(ctx context.Context, req Lookup) core.Directive {
//		...
//	})
//
// FromFunc does the same for a function whose argument type is only known at
// run time. Both accept process functions that return an error instead of a
// directive: nil continues, ErrStop stops and discards the rest of the
// store, and any other error pauses with the item retained.
package consumer
