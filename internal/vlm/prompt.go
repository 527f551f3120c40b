package vlm

// AnalysisPrompt is the instruction sent with every capture. The layout it
// asks for matches what the response parser understands, but the parser never
// assumes the model actually followed it.
const AnalysisPrompt = `Look at this screenshot and find every blue button in it.

For each blue button you find, answer using exactly this layout:

BUTTON 1:
Text: "<the button's label>"
Position: (x, y)
Appearance: <short description of shape and shade>

The position must be the pixel coordinates of the button's center inside the
image, counted from the image's top-left corner. Number the buttons in the
order you find them. If there are no blue buttons, say so in plain words.`
