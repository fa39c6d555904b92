package provision

import "fmt"

// Handler sources deployed as the two functions, packaged one file per
// function under handlerFileName. The sender gets the queue URL rendered in
// at deploy time, so the deployed code needs no configuration lookup.

const processorSource = `import json

def lambda_handler(event, context):
    print('Received event:', json.dumps(event))

    for record in event['Records']:
        print("SQS Message ID:", record['messageId'])
        print("Message Body:", record['body'])

    return {
        'statusCode': 200,
        'body': json.dumps('Message processed successfully!')
    }
`

const senderSourceTemplate = `import json
import boto3
import uuid

sqs = boto3.client('sqs')

QUEUE_URL = '%s'

def lambda_handler(event, context):
    try:
        if 'body' in event:
            try:
                body = json.loads(event['body'])
            except (TypeError, ValueError):
                body = event['body']
        else:
            body = event

        message_content = body.get('message', body.get('Message', body))
        dedup_id = body.get('deduplicationId', str(uuid.uuid4()))
        group_id = body.get('groupId', 'default-group')

        print(f"Sending message to queue: {QUEUE_URL}")
        print(f"Deduplication ID: {dedup_id}")
        print(f"Group ID: {group_id}")

        response = sqs.send_message(
            QueueUrl=QUEUE_URL,
            MessageBody=json.dumps(message_content, default=str),
            MessageDeduplicationId=dedup_id,
            MessageGroupId=group_id
        )

        return {
            'statusCode': 200,
            'body': json.dumps({
                'message': 'Message sent successfully',
                'messageId': response.get('MessageId'),
                'sequenceNumber': response.get('SequenceNumber')
            })
        }
    except Exception as e:
        print(f"Error sending message: {str(e)}")
        return {
            'statusCode': 500,
            'body': json.dumps({
                'error': str(e)
            })
        }
`

// senderSource renders the sender handler bound to the given queue URL.
func senderSource(queueURL string) string {
	return fmt.Sprintf(senderSourceTemplate, queueURL)
}
