package scaffold

import (
	"strings"
	"testing"

	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Generate:
// - Renders package line, JUnit 5 imports, and {Class}Test naming
// - Emits one @Test stub per descriptor with balanced braces
// - Two methods produce two stubs with distinct names
// - Overloads get ordinal suffixes instead of colliding
// - Zero methods still render a valid class
// - Nested class names scaffold by their simple name

func method(name string, params ...javasrc.Parameter) javasrc.MethodDescriptor {
	return javasrc.MethodDescriptor{
		Name:       name,
		Class:      "Calculator",
		Parameters: params,
		ReturnType: "int",
		Visibility: javasrc.VisibilityPublic,
	}
}

// Test: Skeleton structure and naming
func TestGenerate_Skeleton(t *testing.T) {
	t.Parallel()

	tpl := Generate("com.example", "Calculator", []javasrc.MethodDescriptor{
		method("add", javasrc.Parameter{Type: "int", Name: "a"}, javasrc.Parameter{Type: "int", Name: "b"}),
		method("subtract", javasrc.Parameter{Type: "int", Name: "a"}, javasrc.Parameter{Type: "int", Name: "b"}),
	})

	assert.Equal(t, "Calculator", tpl.ClassName)
	assert.Equal(t, "CalculatorTest", tpl.TestClass)
	assert.Equal(t, "CalculatorTest.java", tpl.FileName)

	assert.True(t, strings.HasPrefix(tpl.Source, "package com.example;\n"))
	assert.Contains(t, tpl.Source, "import org.junit.jupiter.api.Test;")
	assert.Contains(t, tpl.Source, "import static org.junit.jupiter.api.Assertions.*;")
	assert.Contains(t, tpl.Source, "public class CalculatorTest {")
	assert.Contains(t, tpl.Source, "assertTrue(true);")
}

// Test: Two methods yield two distinct stubs
func TestGenerate_TwoDistinctStubs(t *testing.T) {
	t.Parallel()

	tpl := Generate("", "Calculator", []javasrc.MethodDescriptor{
		method("add"),
		method("subtract"),
	})

	assert.Contains(t, tpl.Source, "void testAdd()")
	assert.Contains(t, tpl.Source, "void testSubtract()")
	assert.Equal(t, 2, strings.Count(tpl.Source, "@Test"))
}

// Test: Overload stubs get ordinal suffixes
func TestGenerate_OverloadNames(t *testing.T) {
	t.Parallel()

	tpl := Generate("", "Inventory", []javasrc.MethodDescriptor{
		method("add", javasrc.Parameter{Type: "Item", Name: "item"}),
		method("add", javasrc.Parameter{Type: "Item", Name: "item"}, javasrc.Parameter{Type: "int", Name: "count"}),
		method("add", javasrc.Parameter{Type: "List<Item>", Name: "batch"}),
	})

	assert.Contains(t, tpl.Source, "void testAdd()")
	assert.Contains(t, tpl.Source, "void testAdd2()")
	assert.Contains(t, tpl.Source, "void testAdd3()")
	assert.Equal(t, 1, strings.Count(tpl.Source, "void testAdd()"), "base name appears exactly once")

	// The placeholder names the overload it targets.
	assert.Contains(t, tpl.Source, "add(Item item, int count)")
}

// Test: No methods still renders a compilable class
func TestGenerate_EmptyClass(t *testing.T) {
	t.Parallel()

	tpl := Generate("com.example", "Ghost", nil)

	assert.Contains(t, tpl.Source, "public class GhostTest {")
	assert.NotContains(t, tpl.Source, "@Test")
	assert.Equal(t, strings.Count(tpl.Source, "{"), strings.Count(tpl.Source, "}"))
}

// Test: Without a package the file starts at the imports
func TestGenerate_NoPackage(t *testing.T) {
	t.Parallel()

	tpl := Generate("", "Calculator", []javasrc.MethodDescriptor{method("add")})
	assert.True(t, strings.HasPrefix(tpl.Source, "import org.junit.jupiter.api.Test;"))
	assert.NotContains(t, tpl.Source, "package ")
}

// Test: Nested classes scaffold by simple name
func TestGenerate_NestedClass(t *testing.T) {
	t.Parallel()

	tpl := Generate("com.example", "Inventory.Item", []javasrc.MethodDescriptor{
		{Name: "sku", Class: "Inventory.Item", ReturnType: "String", Visibility: javasrc.VisibilityPublic},
	})

	assert.Equal(t, "ItemTest", tpl.TestClass)
	assert.Equal(t, "ItemTest.java", tpl.FileName)
	assert.Contains(t, tpl.Source, "public class ItemTest {")
}

// Test: Braces stay balanced for any method set
func TestGenerate_BalancedBraces(t *testing.T) {
	t.Parallel()

	tpl := Generate("com.example", "Calculator", []javasrc.MethodDescriptor{
		method("add"), method("subtract"), method("multiply"), method("divide"),
	})
	require.Equal(t, strings.Count(tpl.Source, "{"), strings.Count(tpl.Source, "}"))
}
