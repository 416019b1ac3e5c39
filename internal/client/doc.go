// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the user API.
//
// Every subcommand maps to one [adapter.UserAPI] call and prints the result
// as indented JSON:
//
//	version
//	login  -email E -password P
//	create -email E -password P [-name N] [-role user|admin]
//	get    ID
//	me
//	list   [-page N] [-limit N] [-q TEXT] [-fields a,b]
//	update [-name N] ID|me
//	passwd -email E -password P -new P2 ID|me
//	delete ID
//
// The access token (session token or master key) is taken from the
// CLIENT_ACCESS_TOKEN environment variable; login prints a fresh one.
package client
