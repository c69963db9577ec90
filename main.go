/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Command deprecss reports references to deprecated CSS custom properties.
package main

import "bennypowers.dev/deprecss/cmd"

func main() {
	cmd.Execute()
}
