// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  kinlog.go
//
// ==========================================================================

// Package kinlog is the engine's single point of contact with stderr. It
// follows a display-then-continue idiom, coloring by severity instead of
// introducing a structured logging framework.
package kinlog

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
)

var mu sync.Mutex

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

// Error prints a formatted error line to stderr in red. It does not exit —
// callers that must abort the run do so explicitly after recording the
// failure, keeping os.Exit out of library code.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	errColor.Fprintln(os.Stderr, "ERROR: "+msg)
}

// Warning prints a formatted warning line to stderr in yellow.
func Warning(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	warnColor.Fprintln(os.Stderr, "WARNING: "+msg)
}

// Info prints a formatted progress line to stderr in cyan.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	infoColor.Fprintln(os.Stderr, msg)
}

// Fatal prints a red error line and terminates the process with exit code 1.
// Reserved for cmd/kinfin; never called from the kinfin package itself.
func Fatal(format string, args ...any) {
	Error(format, args...)
	os.Exit(1)
}
