// This file is part of vm-bytecode - https://github.com/kohazen/vm-bytecode
//
// Copyright 2026 The vm-bytecode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// The bvm command line tool assembles, runs and disassembles programs for the
// stack virtual machine in github.com/kohazen/vm-bytecode/vm.
//
// Usage:
//
//	bvm asm <file.asm>... [-o file.bc] [--tokens] [--symbols] [--hex]
//	bvm run <file.bc> [--dump] [--step-limit n]
//	bvm dis <file.bc>
//	bvm version
//
// asm: assembles each source file. Without -o, the output file is the input
// file name with its extension replaced by ".bc". The -o flag is only
// accepted with a single input file. All files are processed even if some
// fail; every failure is reported with the assembler stage that raised it.
//
// run: loads a bytecode file and runs it until HALT or a fault, then prints
// the top of the data stack. --dump prints the final machine state (PC,
// stacks and non-zero memory) to stderr. --stack-size, --call-stack-size and
// --memory-size set the machine sizes; --step-limit bounds the number of
// executed instructions (0 means no limit).
//
// dis: prints a listing of the code in a bytecode file, one instruction per
// line prefixed with its address.
//
// Global flags:
//
//	--config file      read configuration from file (default ./bvm.yaml)
//	--log-level level  trace, debug, info, warn or error (default warn)
//	--debug            same as --log-level debug
//	--no-color         disable colored output
//	--output format    summary format, text or json (default text)
//
// Every flag can also be set in the configuration file or with an environment
// variable named after the flag, prefixed with BVM_ and with dashes replaced
// by underscores (BVM_STEP_LIMIT=1000).
package main
