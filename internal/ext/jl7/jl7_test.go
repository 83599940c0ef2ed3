package jl7_test

import (
	"testing"

	"polyc/internal/ext/jl"
	"polyc/internal/ext/jl7"
	"polyc/internal/testkit"
)

func TestPreciseRethrow(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"rethrow of checked exception",
			`class A { void m() throws java.io.IOException {
                try { throw new java.io.IOException(); } catch (Exception e) { throw e; } } }`,
			"",
		},
		{
			"rethrow of unchecked exception",
			`class A { void m() {
                try { throw new IllegalStateException(); } catch (Exception e) { throw e; } } }`,
			"",
		},
		{
			"earlier catch takes its share",
			`import java.io.*;
            class A {
                void f() throws IOException { }
                void m() throws IOException {
                    try { f(); throw new FileNotFoundException(); }
                    catch (FileNotFoundException x) { }
                    catch (Exception e) { throw e; }
                } }`,
			"",
		},
		{
			"narrowed to the catch type",
			`class A { void m() {
                try { throw new Exception(); } catch (java.io.IOException e) { throw e; } catch (Exception e2) { } } }`,
			`Method "m" throws the undeclared exception "java.io.IOException".`,
		},
		{
			"reassigned parameter loses precision",
			`class A { void m() throws java.io.IOException {
                try { throw new java.io.IOException(); } catch (Exception e) { e = new Exception(); throw e; } } }`,
			`Method "m" throws the undeclared exception "java.lang.Exception".`,
		},
		{
			"undeclared precise type",
			`class A { void m() {
                try { throw new java.io.IOException(); } catch (final Exception e) { throw e; } } }`,
			`Method "m" throws the undeclared exception "java.io.IOException".`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testkit.Compile(t, jl7.Factory{}, jl7.Options(), tt.src)
			if tt.want == "" {
				res.ExpectClean(t)
				return
			}
			res.Expect(t, tt.want)
		})
	}
}

func TestBaseLanguageRethrowsCatchType(t *testing.T) {
	src := `class A { void m() throws java.io.IOException {
        try { throw new java.io.IOException(); } catch (Exception e) { throw e; } } }`
	testkit.Compile(t, jl.Factory{}, jl.Options(), src).
		Expect(t, `Method "m" throws the undeclared exception "java.lang.Exception".`)
}

func TestRethrowKeepsBoxing(t *testing.T) {
	testkit.Compile(t, jl7.Factory{}, jl7.Options(),
		`class A { int f(Integer a) { return a + 1; } }`).ExpectClean(t)
}
