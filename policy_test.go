package purify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_defaults(t *testing.T) {
	p, err := resolve(nil)
	require.NoError(t, err)

	assert.Equal(t, MediaTypeHTML, p.ParserMediaType())
	assert.Equal(t, HTMLNamespace, p.Namespace())
	assert.True(t, p.KeepContent())
	assert.False(t, p.SafeForTemplates())
	assert.False(t, p.WholeDocument())
	assert.False(t, p.ReturnDOM())
	assert.False(t, p.InPlace())

	tags := p.AllowedTags()
	for _, name := range []string{"#text", "p", "svg", "math", "tbody"} {
		assert.True(t, tags.Has(name), name)
	}
	for _, name := range []string{"script", "iframe", "foreignobject"} {
		assert.False(t, tags.Has(name), name)
	}

	attrs := p.AllowedAttrs()
	for _, name := range []string{"href", "xlink:href", "class"} {
		assert.True(t, attrs.Has(name), name)
	}
	assert.False(t, attrs.Has("onclick"))
	assert.Zero(t, p.ForbiddenTags().Len())
	assert.Zero(t, p.ForbiddenAttrs().Len())
}

func TestResolve_addNeverMutatesDefaults(t *testing.T) {
	p, err := resolve(&Config{
		AddTags:           []string{"bogus"},
		AddAttrs:          []string{"foo"},
		AddURISafeAttrs:   []string{"href"},
		AddDataURITags:    []string{"a"},
		AddForbidContents: []string{"b"},
	})
	require.NoError(t, err)
	assert.True(t, p.AllowedTags().Has("bogus"))
	assert.True(t, p.AllowedAttrs().Has("foo"))
	assert.True(t, p.uriSafeAttrs.has("href"))
	assert.True(t, p.dataURITags.has("a"))
	assert.True(t, p.forbidContents.has("b"))

	assert.False(t, defAllowedTags.has("bogus"))
	assert.False(t, defAllowedAttrs.has("foo"))

	p, err = resolve(nil)
	require.NoError(t, err)
	assert.False(t, p.AllowedTags().Has("bogus"))
	assert.False(t, p.AllowedAttrs().Has("foo"))
	assert.False(t, p.uriSafeAttrs.has("href"))
	assert.False(t, p.dataURITags.has("a"))
	assert.False(t, p.forbidContents.has("b"))
}

func TestResolve_rules(t *testing.T) {
	t.Run("table implies tbody", func(t *testing.T) {
		p, err := resolve(&Config{
			AllowedTags: []string{"table"},
			ForbidTags:  []string{"tbody"},
		})
		require.NoError(t, err)
		assert.True(t, p.AllowedTags().Has("tbody"))
		assert.False(t, p.ForbiddenTags().Has("tbody"))
	})

	t.Run("SafeForTemplates", func(t *testing.T) {
		p, err := resolve(&Config{SafeForTemplates: true})
		require.NoError(t, err)
		assert.True(t, p.SafeForTemplates())
		assert.False(t, p.allowData)
	})

	t.Run("ReturnDOMFragment", func(t *testing.T) {
		p, err := resolve(&Config{ReturnDOMFragment: true})
		require.NoError(t, err)
		assert.True(t, p.ReturnDOM())
	})

	t.Run("WholeDocument", func(t *testing.T) {
		p, err := resolve(&Config{
			WholeDocument: true,
			AllowedTags:   []string{"p"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"#text", "body", "head", "html", "p"},
			p.AllowedTags().Names())
	})

	t.Run("DiscardContent", func(t *testing.T) {
		p, err := resolve(&Config{
			DiscardContent: true,
			AllowedTags:    []string{"p"},
		})
		require.NoError(t, err)
		assert.False(t, p.KeepContent())
		assert.Equal(t, []string{"p"}, p.AllowedTags().Names())
	})

	t.Run("HTML media type lowercases", func(t *testing.T) {
		p, err := resolve(&Config{AllowedTags: []string{"Foo"}})
		require.NoError(t, err)
		assert.True(t, p.AllowedTags().Has("foo"))
		assert.False(t, p.AllowedTags().Has("Foo"))
		assert.Equal(t, "foo", p.TransformCase("FOO"))
	})

	t.Run("XHTML keeps case", func(t *testing.T) {
		p, err := resolve(&Config{
			ParserMediaType: MediaTypeXHTML,
			AllowedTags:     []string{"Foo"},
		})
		require.NoError(t, err)
		assert.Equal(t, MediaTypeXHTML, p.ParserMediaType())
		assert.True(t, p.AllowedTags().Has("Foo"))
		assert.Equal(t, "FOO", p.TransformCase("FOO"))
	})

	t.Run("unknown media type", func(t *testing.T) {
		p, err := resolve(&Config{ParserMediaType: "text/plain"})
		require.NoError(t, err)
		assert.Equal(t, MediaTypeHTML, p.ParserMediaType())
	})

	t.Run("Namespace", func(t *testing.T) {
		p, err := resolve(&Config{Namespace: SVGNamespace})
		require.NoError(t, err)
		assert.Equal(t, SVGNamespace, p.Namespace())
	})

	t.Run("AllowedNamespaces", func(t *testing.T) {
		p, err := resolve(&Config{AllowedNamespaces: []string{HTMLNamespace}})
		require.NoError(t, err)
		assert.True(t, p.namespaces.has(HTMLNamespace))
		assert.False(t, p.namespaces.has(SVGNamespace))
	})
}

func TestResolve_profiles(t *testing.T) {
	p, err := resolve(&Config{Profiles: &Profiles{SVG: true}})
	require.NoError(t, err)

	tags := p.AllowedTags()
	assert.True(t, tags.Has("svg"))
	assert.True(t, tags.Has("#text"))
	assert.False(t, tags.Has("p"))
	assert.False(t, tags.Has("fecolormatrix"))
	assert.True(t, p.AllowedAttrs().Has("xlink:href"))

	p, err = resolve(&Config{
		Profiles: &Profiles{SVGFilters: true, MathML: true},
		AddTags:  []string{"bogus"},
	})
	require.NoError(t, err)
	tags = p.AllowedTags()
	assert.True(t, tags.Has("fecolormatrix"))
	assert.True(t, tags.Has("math"))
	assert.True(t, tags.Has("bogus"))
	assert.False(t, tags.Has("svg"))
}

func TestResolve_trustedTypesPolicy(t *testing.T) {
	_, err := resolve(&Config{TrustedTypesPolicy: &TrustedTypesPolicy{
		CreateHTML: passThrough,
	}})
	require.ErrorIs(t, err, ErrTrustedTypesPolicy)

	_, err = resolve(&Config{TrustedTypesPolicy: &TrustedTypesPolicy{
		CreateScriptURL: passThrough,
	}})
	require.ErrorIs(t, err, ErrTrustedTypesPolicy)

	p, err := resolve(&Config{TrustedTypesPolicy: &TrustedTypesPolicy{
		CreateHTML:      passThrough,
		CreateScriptURL: passThrough,
	}})
	require.NoError(t, err)
	assert.NotNil(t, p.trusted)
}

func TestPolicy_withDOMReturn(t *testing.T) {
	p, err := resolve(nil)
	require.NoError(t, err)

	dom := p.withDOMReturn()
	assert.NotSame(t, p, dom)
	assert.True(t, dom.ReturnDOM())
	assert.False(t, p.ReturnDOM())
	assert.Same(t, dom, dom.withDOMReturn())
}
