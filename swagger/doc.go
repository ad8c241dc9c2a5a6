// Package swagger generates Swagger 2.0 documents from Go types and
// reflected HTTP action metadata.
//
// The core is a schema registry that walks arbitrary type graphs and
// produces de-duplicated, reference-based schemas. Primitives, enums,
// arrays and dictionaries are described inline; struct types are always
// described once under "definitions" and referenced with $ref, which also
// terminates cycles.
//
// See: https://swagger.io/specification/v2/
//
// # Schema Registry
//
// A registry is created per generation pass and shares read-only options:
//
//	opts := &swagger.SchemaOptions{DescribeAllEnumsAsStrings: true}
//	reg := swagger.NewSchemaRegistry(opts, nil)
//
//	s, err := reg.GetOrRegister(reflect.TypeFor[Product]())
//	// s is {"$ref": "#/definitions/Product"}
//	// reg.Definitions()["Product"] holds the object schema.
//
// Two distinct types that compute the same definition name fail with a
// *ConflictingSchemaIDError. Set UseFullTypeNames or a SchemaIDSelector
// to disambiguate them.
//
// # Type Mapping
//
// Go types map to Swagger types as follows:
//
//	int8, int16, int32, uint8, uint16, uint32  -> integer/int32
//	int, int64, uint, uint64, uintptr          -> integer/int64
//	float32                                    -> number/float
//	float64, json.Number                       -> number/double
//	bool                                       -> boolean
//	string                                     -> string
//	[]byte                                     -> string/byte
//	time.Time                                  -> string/date-time
//	uuid.UUID                                  -> string/uuid
//	encoding.TextMarshaler                     -> string
//	*T                                         -> schema of T
//	[]T, [N]T                                  -> array
//	map[K]V                                    -> object with additionalProperties
//	struct                                     -> $ref to a definition
//	any, json.RawMessage, *http.Request        -> object
//
// Custom schemas bypass inference entirely:
//
//	opts.MapType(reflect.TypeFor[decimal.Decimal](), func() *swagger.Schema {
//	    return &swagger.Schema{Type: "string", Format: "decimal"}
//	})
//
// # Enums
//
// Go cannot enumerate constants through reflection. Enum types either
// implement Enumerator or are registered explicitly:
//
//	err := opts.RegisterEnum(reflect.TypeFor[Color](),
//	    swagger.EnumMember{Name: "Red", Value: Red},
//	    swagger.EnumMember{Name: "Green", Value: Green},
//	)
//
// # Struct Tags
//
// Member names come from the `json` tag. Requiredness and constraints come
// from the go-playground/validator `validate` tag and the `swagger` tag:
//
//	type Product struct {
//	    ID    int32   `json:"id"`
//	    Name  string  `json:"name" validate:"required,max=64"`
//	    Price float64 `json:"price" validate:"required,gt=0"`
//	    SKU   string  `json:"sku" swagger:"description=Stock keeping unit,pattern=^[A-Z0-9-]+$"`
//	    Old   string  `json:"old" swagger:"deprecated"`
//	}
//
// Supported `swagger` keys: required, deprecated, description, title,
// format, example, default, enum (values separated by "|"), minimum,
// maximum, exclusiveMinimum, exclusiveMaximum, multipleOf, minLength,
// maxLength, minItems, maxItems, uniqueItems, readOnly and pattern, which
// must come last. A tag of "-" hides the member.
//
// # Polymorphism
//
//	err := opts.RegisterPolymorphicType(swagger.PolymorphicType{
//	    Base:          reflect.TypeFor[Payment](),
//	    Discriminator: "method",
//	    SubTypes:      []reflect.Type{reflect.TypeFor[Card](), reflect.TypeFor[Transfer]()},
//	})
//
// # Filters
//
// Schema, operation and document filters are registered as factories and
// instantiated once per generated document:
//
//	opts.AddSchemaFilter(swagger.CamelCasePropertyNames)
//	cfg.AddOperationFilter(func() swagger.OperationFilter { return myFilter{} })
//
// # Documents
//
//	gen, err := swagger.NewGenerator(actions, cfg)
//	doc, err := gen.Generate("https://api.example.com/", "v1")
package swagger
