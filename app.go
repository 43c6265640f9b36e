package townview

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	surface   Surface
	handle    *RendererHandle
}

func newApp() *App {
	app := &App{
		stages:    defaultStages(),
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, s := range app.stages {
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// SetSurface sets the surface App.Start draws into. The last call wins.
func (app *App) SetSurface(s Surface) {
	app.surface = s
}

func (app *App) Surface() Surface {
	return app.surface
}

// runOnce runs every system of the Once stages, in stage order.
func (app *App) runOnce() error {
	for _, stage := range app.stages {
		if !stage.Once {
			continue
		}
		if err := app.runStage(stage); err != nil {
			return err
		}
	}
	return nil
}

// runFrame runs one pass over every per-frame stage. The first error aborts
// the rest of the frame.
func (app *App) runFrame() error {
	for _, stage := range app.stages {
		if stage.Once {
			continue
		}
		if err := app.runStage(stage); err != nil {
			return err
		}
	}
	return nil
}

func (app *App) runStage(stage Stage) error {
	for _, system := range app.systems[stage.Name] {
		if err := app.callSystem(system); err != nil {
			return fmt.Errorf("%s: %w", stage.Name, err)
		}
	}
	return nil
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType == nil || resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %v must be a pointer", resource))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the *T resource, or nil when none is installed.
func Resource[T any](app *App) *T {
	if r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return r.(*T)
	}
	return nil
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

func checkSystemSignature(system systemFn) {
	systemType := reflect.TypeOf(system)
	if systemType == nil || systemType.Kind() != reflect.Func {
		panic(fmt.Sprintf("system %v is not a function", system))
	}
	switch systemType.NumOut() {
	case 0:
	case 1:
		if systemType.Out(0) != typeOfError {
			panic(fmt.Sprintf("system %s must return nothing or error", systemType))
		}
	default:
		panic(fmt.Sprintf("system %s must return nothing or error", systemType))
	}
}

func (app *App) callSystem(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if arg, ok := app.resolveArgument(argType); ok {
			args[i] = arg
			continue
		}
		msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
			runtime.FuncForPC(systemValue.Pointer()).Name(),
			fmt.Sprint(systemType),
			fmt.Sprint(argType),
		)
		app.Logger().Errorf("%s", msg)
		panic(msg)
	}

	out := systemValue.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func (app *App) resolveArgument(argType reflect.Type) (reflect.Value, bool) {
	switch argType.Kind() {
	case reflect.Pointer:
		underlyingType := argType.Elem()
		if underlyingType == typeOfCommands {
			return reflect.ValueOf(&Commands{app: app}), true
		}
		if resource, ok := app.resources[underlyingType]; ok {
			return reflect.ValueOf(resource), true
		}
	case reflect.Interface:
		if argType == reflect.TypeOf((*Logger)(nil)).Elem() {
			return reflect.ValueOf(app.Logger()), true
		}
		for _, resource := range app.resources {
			if reflect.TypeOf(resource).Implements(argType) {
				return reflect.ValueOf(resource), true
			}
		}
	}
	return reflect.Value{}, false
}
