package insight

const classifyPrompt = `Analyze the mood of the following text and classify it into one of these categories: %s. Return only the category name. Text: %q`

const patternsPrompt = `Based on the following mood log entries, identify 2-3 key patterns or triggers and provide an actionable suggestion for each. The user is looking for insights into their mental wellness. Return the output as JSON matching the schema, where each item has a "pattern" and a "suggestion".

Mood Log:
%s

Identify patterns related to days of the week, recurring feelings, or connections between notes and moods. Provide concise, supportive, and actionable advice.`

const summaryPrompt = `Here are my mood entries for the past week:
%s

Write a brief, encouraging, and conversational summary of my week. Highlight any positive trends and offer gentle encouragement. Speak like a supportive friend. For example: "This week, I noticed you felt..."`

const chatSystemPrompt = `You are MANAM AI, a friendly and supportive mental wellness assistant. Your name, MANAM, means 'mind' or 'heart' in Tamil. Your goal is to help users navigate their feelings with empathy and care.
- If a user expresses sadness, stress, or anxiety, respond with gentle, encouraging words and offer simple, actionable coping strategies (like deep breathing, a short walk, or listening to calm music).
- If a user expresses happiness, calmness, or excitement, celebrate with them! Encourage them to savor the moment and reflect on what's bringing them joy.
- Keep your responses concise, positive, and conversational. Use emojis to add warmth.
- Always be a safe, non-judgmental space for the user.`
