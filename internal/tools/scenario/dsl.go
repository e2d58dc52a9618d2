// Package scenario loads Lua game scripts and replays them against the
// engine. A script builds a Scenario value: a named list of steps that
// assemble a roster, issue moderator commands, and state expectations
// about the resulting game.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	commandTypeName  = "pending_command"
)

// Scenario is a named sequence of steps produced by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted command or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// pendingCommand points back at an issued command step so chained
// calls can amend its arguments.
type pendingCommand struct {
	scenario  *Scenario
	stepIndex int
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it
// built. The script must end with `return scene`.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	registerScenarioType(state)
	registerCommandType(state)
	registerScenarioConstructor(state)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerCommandType(state *lua.State) {
	lua.NewMetaTable(state, commandTypeName)
	state.NewTable()
	lua.SetFunctions(state, commandMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "game", Function: scenarioGame},
	{Name: "seat", Function: scenarioSeat},
	{Name: "set_phase", Function: scenarioSetPhase},
	{Name: "advance_phase", Function: scenarioAdvancePhase},
	{Name: "queue", Function: scenarioQueue},
	{Name: "dequeue", Function: scenarioDequeue},
	{Name: "vote", Function: scenarioVote},
	{Name: "retract_vote", Function: scenarioRetractVote},
	{Name: "post", Function: scenarioPost},
	{Name: "resolve", Function: scenarioResolve},
	{Name: "expect_alive", Function: scenarioExpectAlive},
	{Name: "expect_dead", Function: scenarioExpectDead},
	{Name: "expect_phase", Function: scenarioExpectPhase},
	{Name: "expect_resolved", Function: scenarioExpectResolved},
	{Name: "expect_unresolved", Function: scenarioExpectUnresolved},
	{Name: "expect_knowledge", Function: scenarioExpectKnowledge},
	{Name: "expect_queued", Function: scenarioExpectQueued},
	{Name: "expect_event", Function: scenarioExpectEvent},
	{Name: "expect_tally", Function: scenarioExpectTally},
}

func scenarioGame(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "game", data)
	return 0
}

// scenarioSeat adds one player to the roster. Role defaults to Vanilla
// and alignment to town at run time.
func scenarioSeat(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	opts := optionalTable(state, 3)
	data := map[string]any{"name": name}
	for key, value := range opts {
		data[key] = value
	}
	appendStep(scenario, "seat", data)
	return 0
}

func scenarioSetPhase(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	day := lua.CheckInteger(state, 3)
	return pushPendingCommand(state, scenario, "set_phase", map[string]any{"kind": kind, "day": day})
}

func scenarioAdvancePhase(state *lua.State) int {
	scenario := checkScenario(state)
	return pushPendingCommand(state, scenario, "advance_phase", nil)
}

func scenarioQueue(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushPendingCommand(state, scenario, "queue", data)
}

func scenarioDequeue(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushPendingCommand(state, scenario, "dequeue", data)
}

func scenarioVote(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushPendingCommand(state, scenario, "vote", data)
}

func scenarioRetractVote(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushPendingCommand(state, scenario, "retract_vote", data)
}

func scenarioPost(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushPendingCommand(state, scenario, "post", data)
}

func scenarioResolve(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 2)
	return pushPendingCommand(state, scenario, "resolve", data)
}

func scenarioExpectAlive(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(scenario, "expect_alive", map[string]any{"player": name})
	return 0
}

func scenarioExpectDead(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(scenario, "expect_dead", map[string]any{"player": name})
	return 0
}

func scenarioExpectPhase(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	day := lua.CheckInteger(state, 3)
	appendStep(scenario, "expect_phase", map[string]any{"kind": kind, "day": day})
	return 0
}

func scenarioExpectResolved(state *lua.State) int {
	scenario := checkScenario(state)
	winner := lua.OptString(state, 2, "")
	appendStep(scenario, "expect_resolved", map[string]any{"winner": winner})
	return 0
}

func scenarioExpectUnresolved(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_unresolved", nil)
	return 0
}

func scenarioExpectKnowledge(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "expect_knowledge", data)
	return 0
}

func scenarioExpectQueued(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "expect_queued", data)
	return 0
}

func scenarioExpectEvent(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "expect_event", data)
	return 0
}

func scenarioExpectTally(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "expect_tally", data)
	return 0
}

var commandMethods = []lua.RegistryFunction{
	{Name: "expect_rejected", Function: commandExpectRejected},
}

// commandExpectRejected marks the chained command step as expecting a
// rejection with the given code instead of success.
func commandExpectRejected(state *lua.State) int {
	ud := lua.CheckUserData(state, 1, commandTypeName)
	pending, ok := ud.(*pendingCommand)
	if !ok || pending == nil {
		lua.Errorf(state, "invalid command step")
		return 0
	}
	code := lua.CheckString(state, 2)
	if pending.stepIndex < 0 || pending.stepIndex >= len(pending.scenario.Steps) {
		lua.Errorf(state, "command step is out of range")
		return 0
	}
	step := &pending.scenario.Steps[pending.stepIndex]
	if step.Args == nil {
		step.Args = map[string]any{}
	}
	step.Args["rejected"] = code
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func pushPendingCommand(state *lua.State, scenario *Scenario, kind string, data map[string]any) int {
	index := appendStep(scenario, kind, data)
	pending := &pendingCommand{scenario: scenario, stepIndex: index}
	state.PushUserData(pending)
	lua.SetMetaTableNamed(state, commandTypeName)
	return 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	case lua.TypeUserData:
		return state.ToUserData(index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
