package apiclient

import (
	"encoding/json"
	"fmt"

	"lexibot/internal/domain"

	"github.com/tidwall/gjson"
)

type fieldType int

const (
	typeString fieldType = iota
	typeNumber
	typeBool
	typeArray
	typeObject
)

func (t fieldType) String() string {
	switch t {
	case typeString:
		return "string"
	case typeNumber:
		return "number"
	case typeBool:
		return "bool"
	case typeArray:
		return "array"
	default:
		return "object"
	}
}

type field struct {
	path string
	typ  fieldType
}

// schema lists the fields a JSON object must carry
type schema []field

var (
	definitionSchema = schema{
		{"word", typeString},
		{"part_of_speech", typeString},
		{"definition", typeString},
		{"examples", typeArray},
		{"synonyms", typeArray},
		{"confidence", typeNumber},
	}
	exampleSchema = schema{
		{"sentence", typeString},
		{"context", typeString},
	}
	synonymSchema = schema{
		{"word", typeString},
		{"similarity", typeString},
	}
	termEnvelopeSchema = schema{
		{"success", typeBool},
		{"data", typeObject},
	}
	termSchema = schema{
		{"term", typeString},
		{"definition", typeString},
		{"partOfSpeech", typeString},
		{"examples", typeArray},
		{"synonyms", typeArray},
	}
	jokeSchema    = schema{{"joke", typeString}}
	captionSchema = schema{{"caption", typeString}}
	healthSchema  = schema{{"status", typeString}, {"service", typeString}}
)

func matches(r gjson.Result, typ fieldType) bool {
	switch typ {
	case typeString:
		return r.Type == gjson.String
	case typeNumber:
		return r.Type == gjson.Number
	case typeBool:
		return r.Type == gjson.True || r.Type == gjson.False
	case typeArray:
		return r.IsArray()
	default:
		return r.IsObject()
	}
}

// check verifies obj carries every field of s with the right type
func (s schema) check(obj gjson.Result, prefix string) error {
	if !obj.IsObject() {
		return fmt.Errorf("%sexpected object", prefix)
	}
	if err := checkUniqueKeys(obj, prefix); err != nil {
		return err
	}
	for _, f := range s {
		r := obj.Get(f.path)
		if !r.Exists() {
			return fmt.Errorf("missing field %s%s", prefix, f.path)
		}
		if !matches(r, f.typ) {
			return fmt.Errorf("field %s%s: expected %s", prefix, f.path, f.typ)
		}
	}
	return nil
}

// checkUniqueKeys rejects objects that repeat a key. Parsers disagree on
// which occurrence wins, so the checked value might not be the one used.
func checkUniqueKeys(obj gjson.Result, prefix string) error {
	seen := make(map[string]struct{})
	var dup string
	obj.ForEach(func(key, _ gjson.Result) bool {
		k := key.String()
		if _, ok := seen[k]; ok {
			dup = k
			return false
		}
		seen[k] = struct{}{}
		return true
	})
	if dup != "" {
		return fmt.Errorf("duplicate field %s%s", prefix, dup)
	}
	return nil
}

func checkElements(arr gjson.Result, name string, elem schema) error {
	for i, item := range arr.Array() {
		if err := elem.check(item, fmt.Sprintf("%s[%d].", name, i)); err != nil {
			return err
		}
	}
	return nil
}

func checkStrings(arr gjson.Result, name string) error {
	for i, item := range arr.Array() {
		if item.Type != gjson.String {
			return fmt.Errorf("%s[%d]: expected string", name, i)
		}
	}
	return nil
}

func parseObject(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, malformed("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, malformed("expected JSON object")
	}
	return root, nil
}

// decodeDefinition validates body against the /define response shape and decodes it
func decodeDefinition(body []byte) (*domain.DefinitionResponse, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	if err := definitionSchema.check(root, ""); err != nil {
		return nil, malformed(err.Error())
	}
	if err := checkElements(root.Get("examples"), "examples", exampleSchema); err != nil {
		return nil, malformed(err.Error())
	}
	if err := checkElements(root.Get("synonyms"), "synonyms", synonymSchema); err != nil {
		return nil, malformed(err.Error())
	}
	if c := root.Get("confidence").Float(); c < 0 || c > 1 {
		return nil, malformed(fmt.Sprintf("confidence %v out of range [0,1]", c))
	}

	// Built from the checked values only
	out := &domain.DefinitionResponse{
		Word:         root.Get("word").String(),
		PartOfSpeech: root.Get("part_of_speech").String(),
		Definition:   root.Get("definition").String(),
		Confidence:   root.Get("confidence").Float(),
	}
	examples := root.Get("examples").Array()
	out.Examples = make([]domain.Example, 0, len(examples))
	for _, ex := range examples {
		out.Examples = append(out.Examples, domain.Example{
			Sentence: ex.Get("sentence").String(),
			Context:  ex.Get("context").String(),
		})
	}
	synonyms := root.Get("synonyms").Array()
	out.Synonyms = make([]domain.Synonym, 0, len(synonyms))
	for _, syn := range synonyms {
		out.Synonyms = append(out.Synonyms, domain.Synonym{
			Word:       syn.Get("word").String(),
			Similarity: syn.Get("similarity").String(),
		})
	}
	return out, nil
}

// decodeTerm validates body against the v1 envelope and returns its data
func decodeTerm(body []byte) (*domain.TermDefinition, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	if err := termEnvelopeSchema.check(root, ""); err != nil {
		return nil, malformed(err.Error())
	}
	if !root.Get("success").Bool() {
		return nil, malformed("success is false")
	}
	data := root.Get("data")
	if err := termSchema.check(data, "data."); err != nil {
		return nil, malformed(err.Error())
	}
	if err := checkStrings(data.Get("examples"), "data.examples"); err != nil {
		return nil, malformed(err.Error())
	}
	if err := checkStrings(data.Get("synonyms"), "data.synonyms"); err != nil {
		return nil, malformed(err.Error())
	}

	return &domain.TermDefinition{
		Term:         data.Get("term").String(),
		Definition:   data.Get("definition").String(),
		PartOfSpeech: data.Get("partOfSpeech").String(),
		Examples:     stringsOf(data.Get("examples")),
		Synonyms:     stringsOf(data.Get("synonyms")),
	}, nil
}

func stringsOf(arr gjson.Result) []string {
	items := arr.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

// decodeInto validates body against s and decodes it into out. Duplicate
// keys are rejected by the check, so both parsers see the same values.
func decodeInto(body []byte, s schema, out any) error {
	root, err := parseObject(body)
	if err != nil {
		return err
	}
	if err := s.check(root, ""); err != nil {
		return malformed(err.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformed(err.Error())
	}
	return nil
}

// errorMessage extracts a human message from an error body: the API's
// {error, message} shape, or a {detail} body from the framework
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	root := gjson.ParseBytes(body)
	for _, path := range []string{"message", "detail", "error"} {
		if r := root.Get(path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
