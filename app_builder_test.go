package townview

import "testing"

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

func TestAppBuilder_Defaults(t *testing.T) {
	app := NewAppBuilder().Build()

	if len(app.stages) != len(defaultStages()) {
		t.Errorf("Expected %d stages, got %v", len(defaultStages()), len(app.stages))
	}
	if app.stages[0] != Startup {
		t.Errorf("Expected Startup to be the first stage, got %v", app.stages[0].Name)
	}
	if app.Surface() != nil {
		t.Errorf("Expected no surface, got %v", app.Surface())
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule{}

	builder := NewAppBuilder()
	builder.UseModule(module1)
	builder.UseModule(module2)

	builder.Build()

	if len(builder.modules) != 2 {
		t.Errorf("Expected 2 modules, got %v", len(builder.modules))
	}
	if !module1.installed {
		t.Errorf("Expected Install to be called on the module 1, but it was not")
	}
	if !module2.installed {
		t.Errorf("Expected Install to be called on the module 2, but it was not")
	}
}

func TestAppBuilder_UseSurface(t *testing.T) {
	surface := NewHeadlessSurface(10, 10)
	app := NewAppBuilder().UseSurface(surface).Build()

	if app.Surface() != surface {
		t.Errorf("Expected the builder surface to be set")
	}
}

func TestRenderModule_SingleRenderer(t *testing.T) {
	app := NewAppBuilder().UseModule(RenderModule{}).Build()
	if Resource[RendererTag](app) == nil {
		t.Fatalf("Expected a renderer tag")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected a second renderer name to panic")
		}
	}()
	ensureSingleRenderer(app, "other")
}
