// Copyright 2026 Microbenchmarks Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/cc/v4"
)

var supportedTypes = map[string]int{
	"int32_t":  4,
	"uint32_t": 4,
	"int":      4,
	"int64_t":  8,
	"uint64_t": 8,
	"long":     8,
	"float":    4,
	"double":   8,
	"_Bool":    1,
}

const signatureSource = "<signature>"

// signaturePrologue stands in for <stdint.h> and the compiler builtins, so
// parsing a signature never has to run the host C compiler.
const signaturePrologue = `typedef signed char int8_t;
typedef short int16_t;
typedef int int32_t;
typedef long int64_t;
typedef unsigned char uint8_t;
typedef unsigned short uint16_t;
typedef unsigned int uint32_t;
typedef unsigned long uint64_t;
int __predefined_declarator;
`

type ParameterType struct {
	Type    string
	Pointer bool
}

// Float reports whether the parameter travels in a floating-point register.
func (p ParameterType) Float() bool {
	return !p.Pointer && (p.Type == "float" || p.Type == "double")
}

func (p ParameterType) String() string {
	if p.Pointer {
		return p.Type + " *"
	}
	return p.Type
}

type Parameter struct {
	Name string
	ParameterType
}

// ParseSignature parses a C parameter list such as
// "uint64_t iterations, int *arr" into parameters.
func ParseSignature(params string) ([]Parameter, error) {
	abi, err := cc.NewABI("linux", "amd64")
	if err != nil {
		return nil, err
	}
	cfg := &cc.Config{ABI: abi}
	ast, err := cc.Parse(cfg, []cc.Source{
		{Name: "<prologue>", Value: signaturePrologue},
		{Name: signatureSource, Value: fmt.Sprintf("void signature(%s) {}\n", params)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature %q: %w", params, err)
	}
	for tu := ast.TranslationUnit; tu != nil; tu = tu.TranslationUnit {
		externalDeclaration := tu.ExternalDeclaration
		if externalDeclaration.Position().Filename != signatureSource || externalDeclaration.Case != cc.ExternalDeclarationFuncDef {
			continue
		}
		directDeclarator := externalDeclaration.FunctionDefinition.Declarator.DirectDeclarator
		if directDeclarator.Case != cc.DirectDeclaratorFuncParam || directDeclarator.ParameterTypeList == nil {
			return nil, fmt.Errorf("invalid signature %q: %v", params, directDeclarator.Case)
		}
		return convertParameters(directDeclarator.ParameterTypeList.ParameterList)
	}
	return nil, fmt.Errorf("invalid signature %q: no parameters found", params)
}

// convertParameters extracts parameters from cc.ParameterList.
func convertParameters(params *cc.ParameterList) ([]Parameter, error) {
	declaration := params.ParameterDeclaration
	if declaration.Declarator == nil {
		position := declaration.Position()
		return nil, fmt.Errorf("%v:%v: error: unnamed parameter", position.Line, position.Column)
	}
	paramName := declaration.Declarator.DirectDeclarator.Token.SrcStr()
	var paramType string
	if declaration.DeclarationSpecifiers.Case == cc.DeclarationSpecifiersTypeQual {
		paramType = declaration.DeclarationSpecifiers.DeclarationSpecifiers.TypeSpecifier.Token.SrcStr()
	} else {
		paramType = declaration.DeclarationSpecifiers.TypeSpecifier.Token.SrcStr()
	}
	isPointer := declaration.Declarator.Pointer != nil
	if _, ok := supportedTypes[paramType]; !ok && !isPointer {
		position := declaration.Position()
		return nil, fmt.Errorf("%v:%v: error: unsupported type: %v", position.Line, position.Column, paramType)
	}
	parameters := []Parameter{{
		Name: paramName,
		ParameterType: ParameterType{
			Type:    paramType,
			Pointer: isPointer,
		},
	}}
	if params.ParameterList != nil {
		next, err := convertParameters(params.ParameterList)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, next...)
	}
	return parameters, nil
}

// bindParameters assigns the parameters to argument registers the way the
// native calling convention does and returns the moves that put each one in
// its home register, plus the register holding the iteration count.
func (t *Target) bindParameters(params []Parameter) ([]string, string, error) {
	if len(params) == 0 {
		return nil, "", errors.New("signature has no iteration count parameter")
	}
	if params[0].Pointer || params[0].Float() {
		return nil, "", fmt.Errorf("first parameter %s must be an integer iteration count", params[0].Name)
	}
	var (
		moves     []string
		sources   = make([]string, len(params))
		intCount  int
		fpCount   int
		iteration string
	)
	for i, param := range params {
		if param.Float() {
			if fpCount >= len(t.FPArgRegisters) {
				return nil, "", fmt.Errorf("%v: parameter %s does not fit in argument registers", t.ISA, param.Name)
			}
			sources[i] = t.FPArgRegisters[fpCount]
			fpCount++
		} else {
			if intCount >= len(t.IntArgRegisters) {
				return nil, "", fmt.Errorf("%v: parameter %s does not fit in argument registers", t.ISA, param.Name)
			}
			sources[i] = t.IntArgRegisters[intCount]
			intCount++
		}
	}
	for i, param := range params {
		home := sources[i]
		if i < len(t.ParamHomes) && t.ParamHomes[i] != "" {
			home = t.ParamHomes[i]
		}
		if i == 0 {
			iteration = home
		}
		if home == sources[i] {
			continue
		}
		if param.Float() {
			return nil, "", fmt.Errorf("%v: cannot move floating-point parameter %s to %s", t.ISA, param.Name, home)
		}
		// a move must not overwrite a parameter that has not been moved yet
		for j := i + 1; j < len(params); j++ {
			if sources[j] == home {
				return nil, "", fmt.Errorf("%v: home %s of %s clobbers parameter %s", t.ISA, home, param.Name, params[j].Name)
			}
		}
		moves = append(moves, expand(t.Move, "{dst}", home, "{src}", sources[i]))
	}
	return moves, iteration, nil
}

// declaration renders a C prototype for one generated function.
func declaration(name, params string) string {
	return fmt.Sprintf("extern void %s(%s);", name, strings.TrimSpace(params))
}
