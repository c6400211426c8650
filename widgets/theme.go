package widgets

import "gioui.org/widget/material"

var Theme = material.NewTheme()
