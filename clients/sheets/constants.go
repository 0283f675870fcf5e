package sheets

// ResponsesSheet is the sheet survey responses are stored in
const ResponsesSheet = "Responses"

// ResponsesRange is where new responses are appended, below the header row
const ResponsesRange = ResponsesSheet + "!A2:C2"

// ResponsesHeader is the first row of a new survey spreadsheet
var ResponsesHeader = []string{"Submitted", "Impression", "Comments"}
